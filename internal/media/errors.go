package media

import "errors"

// ErrUnsupportedFileType возвращается при попытке загрузить файл
// с недопустимым расширением.
var ErrUnsupportedFileType = errors.New("unsupported file type")
