package notifier_config

import (
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the file at path on every write and hands each valid
// result to onChange. Invalid edits are logged and the previous config stays.
func Watch(path string, log *zap.Logger, onChange func(*Config)) error {
	v, err := newViper(path)
	if err != nil {
		return err
	}
	log = log.With(zap.String("component", "config.watch"), zap.String("path", path))

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			log.Error("config reload rejected", zap.Error(err))
			return
		}
		log.Info("config reloaded", zap.Int("categories", len(cfg.Categories)))
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
