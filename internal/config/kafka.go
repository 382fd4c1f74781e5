package config

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP" envDefault:"medical-inventory"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"medical-inventory"`
}
