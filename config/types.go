package config

import "time"

// Config mirrors the INI file. Load starts from Default and the file only
// overrides the keys it sets. ini skips durations that are not positive,
// so "0s" in the file keeps the default; Validate still rejects a zero
// timeout set in code.
type Config struct {
	Serial struct {
		Device        string `ini:"device"`
		Baud          int    `ini:"baud" validate:"min=1200,max=4000000"`
		ReadTimeoutMS int    `ini:"read_timeout_ms" validate:"min=1,max=10000"`
		OpenRetries   int    `ini:"open_retries" validate:"min=0,max=20"`
	} `ini:"serial"`
	Protocol struct {
		CommandTimeout time.Duration `ini:"command_timeout" validate:"gt=0"`
		UploadTimeout  time.Duration `ini:"upload_timeout" validate:"gt=0"`
		HelloTimeout   time.Duration `ini:"hello_timeout" validate:"gt=0"`
		ChunkSize      int           `ini:"chunk_size" validate:"min=1,max=65536"`
		SettleDelay    time.Duration `ini:"settle_delay" validate:"gte=0"`
	} `ini:"protocol"`
	Logging struct {
		Debug bool `ini:"debug"`
		Trace bool `ini:"trace"`
	} `ini:"logging"`
}
