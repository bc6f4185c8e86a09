package generator

import "errors"

// DefaultMimeType は画像パーツに MIME タイプがない場合に使う値です。
const DefaultMimeType = "image/png"

var (
	ErrNoCandidates   = errors.New("no candidates in response")
	ErrNoContentParts = errors.New("no content parts in response")
	ErrNoImageData    = errors.New("no image data found in response")
)
