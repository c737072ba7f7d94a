package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const (
	// SQLite keeps its file change counter in the 100-byte header.
	fingerprintHead = 100
	fingerprintTail = 2048
)

// CalculateFileFingerprint returns a CRC32 over the header and the last 2KB
// of a file. For SQLite databases the header alone changes on every commit.
func CalculateFileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}
	size := stat.Size()

	crc := crc32.NewIEEE()
	if _, err := io.CopyN(crc, file, min(size, fingerprintHead)); err != nil {
		return "", err
	}

	tail := min(size, fingerprintTail)
	if _, err := file.Seek(-tail, io.SeekEnd); err != nil {
		return "", err
	}
	if _, err := io.CopyN(crc, file, tail); err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", crc.Sum32()), nil
}
