package validator

import (
	"net"
	"strings"
)

// ValidateTarget принимает голое доменное имя либо IP.
// Цели задаются без схемы: протокол выбирает само измерение.
func ValidateTarget(target string) bool {
	if target == "" {
		return false
	}

	if strings.Contains(target, "://") || strings.ContainsAny(target, "/ ") {
		return false
	}

	if net.ParseIP(target) != nil {
		return true
	}

	// Упрощенная проверка домена вида site.example.com
	labels := strings.Split(target, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return false
		}
	}

	return true
}
