package main

import (
	"flag"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func (a *app) cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	save := fs.Bool("save", false, "Write the effective config to the user config dir")
	saveTo := fs.String("save-to", "", "Write the effective config to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *saveTo != "":
		if err := a.cfg.SaveTo(*saveTo); err != nil {
			return err
		}
		a.log.Info("saved config", zap.String("path", *saveTo))
		return nil
	case *save:
		if err := a.cfg.Save(); err != nil {
			return err
		}
		a.log.Info("saved config")
		return nil
	}

	enc := yaml.NewEncoder(a.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(a.cfg); err != nil {
		return err
	}
	return enc.Close()
}
