package internal

import (
	"fmt"
	"os"
)

var logger = GetLogger("storsync")

// Exists reports whether the named file or directory exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func StringContains(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

// FormatBytes renders a byte count in a human-friendly binary unit.
func FormatBytes(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d Bytes", n)
	}
	units := []string{"KiB", "MiB", "GiB", "TiB", "PiB"}
	z := n
	i := 0
	for ; z >= 1<<20 && i < len(units)-1; i++ {
		z >>= 10
	}
	return fmt.Sprintf("%.2f %s (%d Bytes)", float64(z)/1024.0, units[i], n)
}
