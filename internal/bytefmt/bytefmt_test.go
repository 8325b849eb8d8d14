package bytefmt

import "testing"

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{0, "0.0B"},
		{1, "1.0B"},
		{512, "512.0B"},
		{1023, "1023.0B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{1024 * 1024, "1.0MB"},
		{1073741824, "1.0GB"},
		{1 << 40, "1.0TB"},
		{3*(1<<40) + (1 << 39), "3.5TB"},
	}

	for _, c := range cases {
		if got := FormatBytes(c.size); got != c.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", c.size, got, c.want)
		}
	}
}

func TestFormatBytesRounding(t *testing.T) {
	// 1555 bytes = 1.51855...KB, rounds to two decimals.
	if got := FormatBytes(1555); got != "1.52KB" {
		t.Errorf("FormatBytes(1555) = %q, want %q", got, "1.52KB")
	}
}

func TestParseBytes(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"1024", 1024},
		{"1KB", 1024},
		{"1.5KB", 1536},
		{"256MB", 256 * 1024 * 1024},
		{"1GB", 1 << 30},
		{"2TB", 2 << 40},
		{"100B", 100},
		{" 4MB ", 4 * 1024 * 1024},
	}

	for _, c := range cases {
		got, err := ParseBytes(c.in)
		if err != nil {
			t.Errorf("ParseBytes(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseBytes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseBytesInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "MB"} {
		if _, err := ParseBytes(in); err == nil {
			t.Errorf("ParseBytes(%q): expected error", in)
		}
	}
}
