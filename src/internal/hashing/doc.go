// Package hashing computes SHA-256 checksums of data streams.
//
// Checksums are hex-encoded and match models.Checksum, so a live file can be
// compared with a generated document without reading it into memory.
//
// # Example Usage
//
//	f, _ := os.Open("/etc/dhcp/dhcpd.conf")
//	defer f.Close()
//
//	proxy := hashing.NewSHA256ReaderProxy(f)
//	if _, err := io.Copy(io.Discard, proxy); err != nil {
//	    return err
//	}
//	checksum := proxy.GetChecksum()
package hashing
