package entity

import "errors"

// Виды ошибок пакетной обработки.
// Всё, кроме ErrConfig, изолируется на уровне файла, области или удаления.
var (
	ErrConfig      = errors.New("config error")
	ErrDecode      = errors.New("decode error")
	ErrDetection   = errors.New("detection error")
	ErrEncode      = errors.New("encode error")
	ErrDelete      = errors.New("delete error")
	ErrRegionEmpty = errors.New("region outside image bounds")
)
