package errors

import "fmt"

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrNicknameTaken   = fmt.Errorf("nickname already in use")
	ErrNicknameLength  = fmt.Errorf("nickname must be 1-24 characters")
	ErrNicknameCharset = fmt.Errorf("nickname may contain letters, numbers, _, -")
	ErrEmptyWords      = fmt.Errorf("no words have been found")
)
