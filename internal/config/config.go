package config

// DEV enables the compiler's own trace logging. It is set once by the CLI
// before any stage runs.
var DEV bool

func SetDevMode(dev bool) {
	DEV = dev
}
