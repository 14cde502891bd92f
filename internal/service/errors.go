package service

import "errors"

var (
	// 輸入格式錯誤
	ErrInvalidNecklaceID = errors.New("int format error")
	ErrNoNecklace        = errors.New("no necklace")

	// 語意衝突
	ErrNecklaceIDMismatch = errors.New("necklace ID mismatch")
	ErrNecklaceIDExists   = errors.New("necklace ID already existing")

	ErrNecklaceNotFound = errors.New("necklace not found")

	// 儲存層拒絕寫入，與「不存在」是不同的失敗
	ErrCreateFailed = errors.New("could not create necklace")
	ErrUpdateFailed = errors.New("necklace found but could not be updated")
	ErrDeleteFailed = errors.New("necklace found but could not be deleted")
)
