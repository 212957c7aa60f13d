package serverconfig

type Config struct {
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `yaml:"grpcserver" mapstructure:"grpcserver"`
	WS         WSConfig         `yaml:"ws" mapstructure:"ws"`
	Session    SessionConfig    `yaml:"session" mapstructure:"session"`
	Game       GameConfig       `yaml:"game" mapstructure:"game"`
	Journal    JournalConfig    `yaml:"journal" mapstructure:"journal"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type GRPCServerConfig struct {
	Host    string `yaml:"host" mapstructure:"host"`
	Port    int    `yaml:"port" mapstructure:"port"`
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
}

type WSConfig struct {
	NeedSecret bool `yaml:"need_secret" mapstructure:"need_secret"`
	OutBuffer  int  `yaml:"out_buffer" mapstructure:"out_buffer"`
}

type SessionConfig struct {
	JWTSecret    string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	TTLHours     int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	IdleTimeoutS int    `yaml:"idle_timeout_s" mapstructure:"idle_timeout_s"`
	AskTimeoutMs int    `yaml:"ask_timeout_ms" mapstructure:"ask_timeout_ms"`
}

// GameConfig 是生成规则的固定常量，进程内不允许热更新，否则同一格子会生成出不同结果。
type GameConfig struct {
	TileDegrees      float64      `yaml:"tile_degrees" mapstructure:"tile_degrees"`
	SpawnProbability float64      `yaml:"spawn_probability" mapstructure:"spawn_probability"`
	OriginLat        float64      `yaml:"origin_lat" mapstructure:"origin_lat"`
	OriginLng        float64      `yaml:"origin_lng" mapstructure:"origin_lng"`
	MaxViewCells     int          `yaml:"max_view_cells" mapstructure:"max_view_cells"`
	Policy           string       `yaml:"policy" mapstructure:"policy"` // swap / reject_when_holding
	Tiers            []TierConfig `yaml:"tiers" mapstructure:"tiers"`
}

// TierConfig：roll <= UpTo 时取 Value，按 UpTo 升序排列。
type TierConfig struct {
	UpTo  float64 `yaml:"up_to" mapstructure:"up_to"`
	Value int     `yaml:"value" mapstructure:"value"`
}

type JournalConfig struct {
	Driver       string `yaml:"driver" mapstructure:"driver"` // memory / mongodb / mysql
	FlushEveryMs int    `yaml:"flush_every_ms" mapstructure:"flush_every_ms"`
	BatchSize    int    `yaml:"batch_size" mapstructure:"batch_size"`
	MaxPending   int    `yaml:"max_pending" mapstructure:"max_pending"` // 存储不可用时内存里最多攒的条数
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}
