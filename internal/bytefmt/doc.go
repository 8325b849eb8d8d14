// Package bytefmt converts byte counts to and from human-readable strings.
//
// Formatting uses 1024-based units and rounds to two decimal places while
// printing the fewest digits needed (always at least one decimal):
//
//	FormatBytes(0)          // "0.0B"
//	FormatBytes(1536)       // "1.5KB"
//	FormatBytes(1<<30)      // "1.0GB"
//
// ParseBytes is the inverse for configuration values like "256MB".
package bytefmt
