package config

// Supported database engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Engine       string `mapstructure:"engine"`
	Path         string `mapstructure:"path"` // sqlite file
	URL          string `mapstructure:"url"`  // full DSN, wins over the fields below
	AuthToken    string `mapstructure:"authToken"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	Extras       string `mapstructure:"extras"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	LogLevel     string `mapstructure:"logLevel"` // silent, error, warn, info
}
