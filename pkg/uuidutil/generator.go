package uuidutil

import "github.com/google/uuid"

// New возвращает uuid для идентификатора цикла проверки
func New() string {
	return uuid.New().String()
}

func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
