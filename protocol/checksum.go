package protocol

// Checksum computes the two's complement of the byte sum of data. The
// receiver verifies an upload by checking that the payload and checksum sum
// to zero.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum + 1
}
