package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Load 把 configPath 指向的 yaml 解到 out（out 里已有的值作为默认值保留）。
// onChange 不为空时开启文件监听，每次变更都拿到一份重新读取过的 viper；
// 不会再写 out，调用方自己决定哪些配置允许热更新。
func Load(configPath string, out any, onChange func(v *viper.Viper)) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", configPath, err)
	}
	if err := v.Unmarshal(out, decodeHooks()); err != nil {
		return fmt.Errorf("unmarshal config %s: %w", configPath, err)
	}

	if onChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				return
			}
			onChange(v)
		})
		v.WatchConfig()
	}
	return nil
}

// Decode 供热更新回调使用，和 Load 共用一套 hook。
func Decode(v *viper.Viper, out any) error {
	return v.Unmarshal(out, decodeHooks())
}

func decodeHooks() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}
