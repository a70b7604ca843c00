// Package config provides configuration management for the inference router.
//
// Configuration is loaded from environment variables once at startup and
// validated; it is not reloaded while the process runs. Invalid values are
// reported as *ConfigError.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.QueueThreshold) // QUEUE_THRESHOLD, default 5
package config
