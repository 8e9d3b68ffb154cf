package storage

// IntervalForRange переводит диапазон из query-параметра в интервал Postgres.
// Неизвестное значение сводится к часу.
func IntervalForRange(timeRange string) string {
	switch timeRange {
	case "month":
		return "1 month"
	case "week":
		return "7 day"
	case "day":
		return "1 day"
	case "4hours":
		return "4 hour"
	case "hour":
		return "1 hour"
	case "30minutes":
		return "30 minute"
	default:
		return "1 hour"
	}
}
