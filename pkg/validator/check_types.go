package validator

func ValidateCheckType(checkType string) bool {
	validTypes := map[string]bool{
		"ping": true,
		"http": true,
	}
	return validTypes[checkType]
}
