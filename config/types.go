package config

// ServerConfig contains the HTTP snapshot server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// FeedConfig contains Network Rail data feed credentials and topics.
// The STOMP client itself lives outside this repository; the credentials
// here are also used by the SMART reference-data downloader.
type FeedConfig struct {
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	TDTopic   string   `yaml:"tdTopic"`
	VSTPTopic string   `yaml:"vstpTopic"`
	TDAreas   []string `yaml:"tdAreas"` // empty = accept all areas
}

// SMARTConfig contains SMART berth reference data settings
type SMARTConfig struct {
	URL             string `yaml:"url" validate:"omitempty,url"`
	CachePath       string `yaml:"cachePath"`
	CacheExpiryDays int    `yaml:"cacheExpiryDays" validate:"gte=0"`
	RefreshHours    int    `yaml:"refreshHours" validate:"gte=0"`
}

// TrackerConfig bounds the per-window tracking state
type TrackerConfig struct {
	HistoryCap    int    `yaml:"historyCap" validate:"gte=0"`    // berths kept per tracked train
	StaleAfter    string `yaml:"staleAfter"`                     // duration string like "30m"
	ExitScanDepth int    `yaml:"exitScanDepth" validate:"gte=0"` // successor steps checked on clear
}

// WindowConfig describes one monitored diagram or track section
type WindowConfig struct {
	Name            string   `yaml:"name" validate:"required"`
	CenterSTANOX    string   `yaml:"centerStanox" validate:"omitempty,numeric"`
	BerthRange      int      `yaml:"berthRange" validate:"gte=0"` // stations outward each way
	TDAreas         []string `yaml:"tdAreas"`                     // alternative to centerStanox
	AlertCategories []string `yaml:"alertCategories"`
}

// KafkaConfig enables the optional Kafka alert sink
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig   `yaml:"server"`
	Feed    FeedConfig     `yaml:"feed"`
	SMART   SMARTConfig    `yaml:"smart"`
	Tracker TrackerConfig  `yaml:"tracker"`
	Windows []WindowConfig `yaml:"windows"`
	Kafka   KafkaConfig    `yaml:"kafka"`
}
