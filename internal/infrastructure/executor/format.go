package executor

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with binary 1024 scaling and two decimal
// places. Plain bytes stay exact integers.
func FormatSize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	size := float64(n)
	for _, unit := range sizeUnits {
		if size < 1024 || unit == sizeUnits[len(sizeUnits)-1] {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%d B", n)
}
