//go:build integration

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	_ "gocloud.dev/blob/s3blob"

	"github.com/ukwa/wasget/internal/testutils"
)

// TestDownloadToS3Destination runs the full pipeline against a minio
// container: manifest walk, worker pool, and streamed writes through the
// s3 driver.
func TestDownloadToS3Destination(t *testing.T) {
	ctx := context.Background()

	files := []testutils.WebdataFile{
		{Name: "ARCHIVEIT-1.warc.gz", Data: testutils.GenerateTestData(t, 256*1024)},
		{Name: "ARCHIVEIT-2.warc.gz", Data: testutils.GenerateTestData(t, 512*1024)},
		{Name: "ARCHIVEIT-3.warc.gz", Data: testutils.GenerateTestData(t, 64*1024)},
	}
	archive := testutils.StartArchive(t, files, 2)

	minio := testutils.StartMinioContainer(t, ctx, "wasget-test")
	defer minio.Close(ctx)

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-base-uri", archive.ManifestURI(),
		"-destination", minio.BucketURL,
		"-workers", "3",
	}, strings.NewReader(""), &stdout, &stderr)

	if code != ExitSuccess {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", ExitSuccess, code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Downloaded 3/3 files.") {
		t.Fatalf("expected summary, got %q", stdout.String())
	}

	bucket, err := minio.OpenBucket(ctx)
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	for _, f := range files {
		data, err := bucket.ReadAll(ctx, f.Name)
		if err != nil {
			t.Errorf("read back %s: %v", f.Name, err)
			continue
		}
		if !bytes.Equal(data, f.Data) {
			t.Errorf("%s: stored contents differ from source", f.Name)
		}
	}
}
