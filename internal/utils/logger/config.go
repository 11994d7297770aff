// internal/utils/logger/config.go
package logger

type Config struct {
	LogFile     string // пусто - только консоль
	MaxSize     int    // мегабайты
	MaxAge      int    // дни
	MaxBackups  int    // количество файлов
	Compress    bool   // сжимать ротированные файлы
	Development bool
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		MaxSize:    50,
		MaxAge:     14,
		MaxBackups: 3,
		Compress:   true,
	}
}
