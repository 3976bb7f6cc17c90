package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

type ChecksumProvider interface {
	GetChecksum() string
}

// ChecksumReaderProxy is a proxy that calculates the SHA-256 checksum of data as it's read.
type ChecksumReaderProxy struct {
	reader   io.Reader
	checksum hash.Hash
	size     int64
}

// NewSHA256ReaderProxy creates a new instance of ChecksumReaderProxy.
func NewSHA256ReaderProxy(reader io.Reader) *ChecksumReaderProxy {
	return &ChecksumReaderProxy{
		reader:   reader,
		checksum: sha256.New(),
	}
}

// Read reads data from the underlying reader and feeds it to the checksum.
func (p *ChecksumReaderProxy) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if n > 0 {
		// hash.Hash.Write never returns an error
		p.checksum.Write(buf[:n])
		p.size += int64(n)
	}
	return n, err
}

// GetChecksum returns the checksum of everything read so far as a hex string.
func (p *ChecksumReaderProxy) GetChecksum() string {
	return hex.EncodeToString(p.checksum.Sum(nil))
}

// Size returns the number of bytes read so far.
func (p *ChecksumReaderProxy) Size() int64 {
	return p.size
}

// ReaderChecksum drains r and returns its checksum.
func ReaderChecksum(r io.Reader) (string, error) {
	proxy := NewSHA256ReaderProxy(r)
	if _, err := io.Copy(io.Discard, proxy); err != nil {
		return "", err
	}
	return proxy.GetChecksum(), nil
}
