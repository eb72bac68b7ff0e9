package main

// Built-in plugins register their factories at init time.
import (
	_ "github.com/blackroad/roadplugin/plugins/audit"
	_ "github.com/blackroad/roadplugin/plugins/hello"
	_ "github.com/blackroad/roadplugin/plugins/kvstore"
)
