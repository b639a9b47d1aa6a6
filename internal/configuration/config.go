package configuration

import (
	"os"
	"strings"
	"time"

	"github.com/markusressel/karlson/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	// Interval is the time the scheduler sleeps between two control cycles
	Interval time.Duration `json:"interval"`

	// SensorRoot is the directory containing the hwmonX device directories
	SensorRoot string `json:"sensorRoot"`
	// TempScale is the number of raw hwmon temperature units per degree celsius
	TempScale int `json:"tempScale"`
	// PwmMax is the raw hwmon pwm value corresponding to a fan level of 100%
	PwmMax int `json:"pwmMax"`

	Hwmon  HwmonConfig  `json:"hwmon"`
	Nvidia NvidiaConfig `json:"nvidia"`

	// Defaults is the process-wide policy used for every device without an override
	Defaults PolicyConfig `json:"defaults"`

	Propellers []PropellerConfig       `json:"propellers"`
	Devices    []CompositeDeviceConfig `json:"devices"`

	Statistics StatisticsConfig `json:"statistics"`
}

type HwmonConfig struct {
	// Enabled lists the ids of the hwmonX devices that should be controlled
	Enabled []int `json:"enabled"`
}

type NvidiaConfig struct {
	Smi      string        `json:"smi"`
	Settings string        `json:"settings"`
	Timeout  time.Duration `json:"timeout"`
	// Enabled lists the indices of the gpus that should be controlled
	Enabled []int `json:"enabled"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("karlson")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/karlson/")
	}

	viper.SetEnvPrefix("karlson")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("interval", 10*time.Second)
	viper.SetDefault("sensorRoot", "/sys/class/hwmon")
	viper.SetDefault("tempScale", 1000)
	viper.SetDefault("pwmMax", 255)

	viper.SetDefault("hwmon.enabled", []int{})

	viper.SetDefault("nvidia.smi", "nvidia-smi")
	viper.SetDefault("nvidia.settings", "nvidia-settings")
	viper.SetDefault("nvidia.timeout", 2*time.Second)
	viper.SetDefault("nvidia.enabled", []int{})

	viper.SetDefault("defaults.name", "")
	viper.SetDefault("defaults.targetLevel", 60)
	viper.SetDefault("defaults.minLevel", 0)
	viper.SetDefault("defaults.stepUp", 5)
	viper.SetDefault("defaults.stepDown", 2)
	viper.SetDefault("defaults.tempOk", 65)
	viper.SetDefault("defaults.tempHot", 75)
	viper.SetDefault("defaults.tempCrit", 80)
	viper.SetDefault("defaults.windowSize", 15)
	viper.SetDefault("defaults.pwmFile", "pwm1")
	viper.SetDefault("defaults.tempInputs", []string{"temp1_input"})
	viper.SetDefault("defaults.nvidiaTempInputs", []int{})
	viper.SetDefault("defaults.applyTargetOnStart", false)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.textfile", "/var/lib/node_exporter/textfile_collector/karlson.prom")
	viper.SetDefault("statistics.interval", 15*time.Second)
}

// DetectAndReadConfigFile locates the configuration file, reads it and returns its path.
func DetectAndReadConfigFile() string {
	path, err := ReadConfigFile()
	if err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	return path
}

// ReadConfigFile locates the configuration file and reads it, if there is one.
func ReadConfigFile() (string, error) {
	if err := viper.ReadInConfig(); err != nil {
		return "", err
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed(), nil
}

// LoadConfig decodes the current viper state into CurrentConfig
func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(decodeHooks()))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

// ReloadConfig re-reads the configuration file and returns the validated result.
// CurrentConfig is left untouched.
func ReloadConfig() (Configuration, error) {
	var config Configuration
	if err := viper.ReadInConfig(); err != nil {
		return config, err
	}
	if err := viper.Unmarshal(&config, viper.DecodeHook(decodeHooks())); err != nil {
		return config, err
	}
	if err := validateConfig(&config); err != nil {
		return config, err
	}
	return config, nil
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		DeviceTypeHookFunc(),
	)
}
