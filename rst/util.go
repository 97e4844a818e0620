package rst

import "strconv"

func itoa(n int) string    { return strconv.Itoa(n) }
func uitoa(n uint64) string { return strconv.FormatUint(n, 10) }
