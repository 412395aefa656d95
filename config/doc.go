// Package config loads service configuration with Viper.
//
// Values are layered: built-in defaults, then config.yml, then a .env file,
// then the process environment. Environment keys are the upper-cased config
// path with dots replaced by underscores, so SERVER_PORT overrides
// server.port and CLASSIFIER_CLASS_MAP_PATH overrides classifier.class_map_path.
//
//	var cfg appConfig
//	err := config.LoadConfig("soundguard", &cfg,
//	    config.WithDefaults(defaults),
//	    config.WithConfigFile(path))
package config
