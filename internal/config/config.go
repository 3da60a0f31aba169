package config

import (
	"fmt"
	"log"
	"sync"

	"SaborBot/internal/lib/validate"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env string `yaml:"env" env-default:"local"`
	Bot struct {
		AdminChatId     string `yaml:"admin_chat_id" env-default:"" validate:"required"`
		SecondaryChatId string `yaml:"secondary_chat_id" env-default:""`
		ChatIdSuffix    string `yaml:"chat_id_suffix" env-default:"@c.us"`
		CountryPrefix   string `yaml:"country_prefix" env-default:"55"`
		TimeoutMinutes  int    `yaml:"timeout_minutes" env-default:"60"`
		SweepMinutes    int    `yaml:"sweep_minutes" env-default:"5"`
	} `yaml:"bot"`
	WhatsApp struct {
		AccessToken   string `yaml:"access_token" env-default:""`
		VerifyToken   string `yaml:"verify_token" env-default:""`
		AppSecret     string `yaml:"app_secret" env-default:""`
		PhoneNumberID string `yaml:"phone_number_id" env-default:""`
		Enabled       bool   `yaml:"enabled" env-default:"true"`
	} `yaml:"whatsapp"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		BotName string `yaml:"bot_name" env-default:"SaborBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	} `yaml:"mongo"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
		ApiKey string `yaml:"key" env-default:""`
	} `yaml:"listen"`
}

// AuthorizedAdmins returns the set of chat ids allowed to issue admin
// commands: the admin principal plus the optional secondary number.
func (c *Config) AuthorizedAdmins() []string {
	admins := []string{c.Bot.AdminChatId}
	if c.Bot.SecondaryChatId != "" {
		admins = append(admins, c.Bot.SecondaryChatId)
	}
	return admins
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
		if err = validate.Struct(instance); err != nil {
			instance = nil
			log.Fatal(fmt.Errorf("invalid config: %w", err))
		}
	})
	return instance
}
