package config

const (
	defaultStorageRoot    = "~/.local/share/dicomweb-pacs/data"
	defaultLogDir         = "~/.local/share/dicomweb-pacs/logs"
	defaultBind           = "127.0.0.1:5001"
	defaultEngineURL      = "http://127.0.0.1:8042"
	defaultAET            = "DICOMWEB_PACS"
	defaultDIMSETimeout   = 30
	defaultTransferSyntax = "1.2.840.10008.1.2.1"
	defaultLogFormat      = ""
	defaultLogLevel       = "info"
	defaultAuditEnabled   = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorageRoot: defaultStorageRoot,
			LogDir:      defaultLogDir,
			Bind:        defaultBind,
		},
		DIMSE: DIMSE{
			EngineURL:      defaultEngineURL,
			AET:            defaultAET,
			TimeoutSeconds: defaultDIMSETimeout,
		},
		Cache: Cache{
			TransferSyntax: defaultTransferSyntax,
		},
		Audit: Audit{
			Enabled: defaultAuditEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
