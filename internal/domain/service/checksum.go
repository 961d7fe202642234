package service

import (
	"crypto/sha256"
	"hash"
	"io"

	"github.com/123ang/iso-document/internal/domain/valueobject"
	"github.com/123ang/iso-document/pkg/apperror"
)

// ChecksumService はファイル内容のSHA-256チェックサムを計算するドメインサービス
type ChecksumService interface {
	// Compute はストリームを最後まで読み、チェックサムと読み込みバイト数を返します
	Compute(r io.Reader) (valueobject.Checksum, int64, error)

	// NewDigestReader は読み込みと同時にダイジェストを計算するReaderを返します
	NewDigestReader(r io.Reader) *DigestReader
}

type checksumServiceImpl struct{}

// NewChecksumService は新しいChecksumServiceを作成します
func NewChecksumService() ChecksumService {
	return &checksumServiceImpl{}
}

// Compute はストリームを最後まで読み、チェックサムと読み込みバイト数を返します
func (s *checksumServiceImpl) Compute(r io.Reader) (valueobject.Checksum, int64, error) {
	dr := s.NewDigestReader(r)
	if _, err := io.Copy(io.Discard, dr); err != nil {
		return valueobject.Checksum{}, 0, apperror.NewIOError("failed to read file content", err)
	}
	return dr.Checksum(), dr.BytesRead(), nil
}

// NewDigestReader は読み込みと同時にダイジェストを計算するReaderを返します
func (s *checksumServiceImpl) NewDigestReader(r io.Reader) *DigestReader {
	return NewDigestReader(r)
}

// DigestReader は読み込んだバイトをSHA-256に流し込むio.Readerです
// ストレージへの書き込みと同時にチェックサムを得るために使います
type DigestReader struct {
	r   io.Reader
	h   hash.Hash
	n   int64
	err error
}

// NewDigestReader は新しいDigestReaderを作成します
func NewDigestReader(r io.Reader) *DigestReader {
	return &DigestReader{r: r, h: sha256.New()}
}

// Read はio.Readerを実装します
func (d *DigestReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		d.h.Write(p[:n])
		d.n += int64(n)
	}
	if err != nil && err != io.EOF {
		d.err = err
	}
	return n, err
}

// Checksum はこれまでに読み込んだ内容のチェックサムを返します
func (d *DigestReader) Checksum() valueobject.Checksum {
	return valueobject.ChecksumFromDigest(d.h.Sum(nil))
}

// BytesRead は読み込んだバイト数を返します
func (d *DigestReader) BytesRead() int64 {
	return d.n
}

// Err は読み込み中に発生したEOF以外のエラーを返します
func (d *DigestReader) Err() error {
	return d.err
}
