package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// TargetPattern определяет допустимое имя фрейма
// Латинские буквы, цифры, '_' и '-', до 64 символов; пустое имя означает фрейм по умолчанию
var TargetPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{0,64}$`)

const (
	// MaxTitleLen максимальная длина заголовка фрейма в символах
	MaxTitleLen = 128
	// MinSecretLen минимальная длина общего секрета
	MinSecretLen = 12
)

// ValidateTarget проверяет имя фрейма, запрошенное клиентом
func ValidateTarget(target string) error {
	if !TargetPattern.MatchString(target) {
		return fmt.Errorf("target can only contain letters, numbers, '_' and '-' and must not exceed 64 characters")
	}
	return nil
}

// ValidateTitle проверяет заголовок фрейма
func ValidateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n > MaxTitleLen {
		return fmt.Errorf("title must not exceed %d characters, got %d", MaxTitleLen, n)
	}
	return nil
}

// ValidateSecret проверяет минимальные требования к общему секрету
// Минимум 12 символов
func ValidateSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("secret cannot be empty")
	}

	if len(secret) < MinSecretLen {
		return fmt.Errorf("secret must be at least %d characters long", MinSecretLen)
	}

	return nil
}
