package config

const (
	defaultStateDir          = "~/.local/share/super8"
	defaultLogDir            = "~/.local/share/super8/logs"
	defaultPlayerBinary      = "mpv"
	defaultStopGraceSeconds  = 2
	defaultCropDetectStartAt = 60
	defaultCropThreshold     = 25
	defaultCropForcedFPS     = 25
	defaultCropSettleSeconds = 20
	defaultOutputExtension   = ".mp4"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Player: Player{
			Binary:           defaultPlayerBinary,
			StopGraceSeconds: defaultStopGraceSeconds,
		},
		CropDetect: CropDetect{
			StartAt:       defaultCropDetectStartAt,
			Threshold:     defaultCropThreshold,
			ForcedFPS:     defaultCropForcedFPS,
			SettleSeconds: defaultCropSettleSeconds,
		},
		Conversion: Conversion{
			OutputExtension: defaultOutputExtension,
		},
		EQ: EQ{
			Contrast:    130,
			Brightness:  0,
			Saturation:  100,
			GammaRed:    100,
			GammaGreen:  100,
			GammaBlue:   30,
			GammaWeight: 50,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
