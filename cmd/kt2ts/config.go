package main

import (
	"github.com/dhamidi/kt2ts/classpath"
	"github.com/dhamidi/kt2ts/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

// flagKeys maps extraction flags to configuration keys.
var flagKeys = map[string]string{
	"classpath":    "classpath",
	"deps":         "dependencies",
	"pattern":      "classPatterns",
	"mapping":      "mappingFile",
	"template-dir": "templateDir",
	"template":     "templateFileName",
	"output":       "outputFile",
	"overwrite":    "overwrite",
	"local-only":   "localOnly",
	"cache-size":   "cacheSize",
}

// mapPairs collects --map source=target flags; they win over typeMapping
// entries from the config file.
var mapPairs []string

func addExtractFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceP("classpath", "c", nil, "directory or jar of compiled classes to scan (repeatable)")
	f.StringSliceP("deps", "d", nil, "dependency directory or jar used to resolve references (repeatable)")
	f.StringSliceP("pattern", "p", nil, "package, class or glob selecting classes (repeatable)")
	f.StringArrayVar(&mapPairs, "map", nil, "type substitution as source=target, e.g. java.time.Instant=string")
	f.String("mapping", "", "YAML file of source: target type substitutions")
	f.Bool("local-only", true, "scan only --classpath roots, not dependencies")
	f.Int("cache-size", classpath.DefaultCacheSize, "number of parsed classes kept in memory")
}

func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("template-dir", "", "directory holding a custom template")
	f.String("template", "", "template file name, with or without .tmpl")
	f.StringP("output", "o", "", "output file (default: standard output)")
	f.Bool("overwrite", false, "replace an existing output file")
}

// loadConfig merges defaults, the config file, KT2TS_* variables and the
// flags of cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.NewViper(configFile)
	if err != nil {
		return nil, err
	}
	for name, key := range flagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}
	if err := addMapPairs(v); err != nil {
		return nil, err
	}
	return config.Load(v)
}

func addMapPairs(v *viper.Viper) error {
	if len(mapPairs) == 0 {
		return nil
	}
	pairs, err := config.ParseMappingFlag(mapPairs)
	if err != nil {
		return err
	}
	var entries []config.TypeMappingEntry
	if err := v.UnmarshalKey("typeMapping", &entries); err != nil {
		return err
	}
	v.Set("typeMapping", append(entries, pairs...))
	return nil
}
