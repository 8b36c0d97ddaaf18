// internal/config/config.go
package config

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

type BridgeConfig struct {
	Local  EndpointConfig `yaml:"local"`
	Remote EndpointConfig `yaml:"remote"`

	// Forward moves registers local -> remote, Return remote -> local.
	Forward DirectionConfig `yaml:"forward"`
	Return  DirectionConfig `yaml:"return"`

	TimeoutMs int  `yaml:"timeout_ms"`
	Verbose   bool `yaml:"verbose"`

	// BigEndian selects the word order for the 32-bit value display.
	BigEndian bool `yaml:"big_endian"`
}

// ---- ENDPOINT ----

type EndpointConfig struct {
	Endpoint string `yaml:"endpoint"`
	UnitID   uint8  `yaml:"unit_id"`
}

// ---- DIRECTION GEOMETRY ----

type DirectionConfig struct {
	SourceAddress uint16 `yaml:"source_address"`
	DestAddress   uint16 `yaml:"dest_address"`
	Quantity      uint16 `yaml:"quantity"`
}
