package koanf

// KMS selects the AWS KMS key and the credentials used to reach it.
type KMS struct {
	ARN       string `koanf:"arn"`
	Region    string `koanf:"region"`
	RoleArn   string `koanf:"role_arn"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
}

type Vault struct {
	Address    string `koanf:"address"`
	Role       string `koanf:"role"`
	Token      string `koanf:"token"`
	CaPath     string `koanf:"ca_path"`
	UseTLS     bool   `koanf:"use_tls"`
	TransitKey string `koanf:"transit_key"`
}

// Decryptor configures how `kms` config entries get decrypted.
type Decryptor struct {
	Provider    string `koanf:"provider"`
	Concurrency int    `koanf:"concurrency"`
	LogLevel    string `koanf:"log_level"`
	KMS         KMS    `koanf:"kms"`
	Vault       Vault  `koanf:"vault"`
}
