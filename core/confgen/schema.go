package confgen

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed server.sample.json
var baselineJSON []byte

// ServerConfig is the typed schema of a dedicated-server configuration
// document. Field order here determines field order in the generated JSON,
// so keep it aligned with the baseline template.
type ServerConfig struct {
	BindAddress   string          `json:"bindAddress"`
	BindPort      int             `json:"bindPort"`
	PublicAddress string          `json:"publicAddress"`
	PublicPort    int             `json:"publicPort"`
	A2S           A2SConfig       `json:"a2s"`
	Rcon          RconConfig      `json:"rcon"`
	Game          GameConfig      `json:"game"`
	Operating     OperatingConfig `json:"operating"`
}

// A2SConfig configures the Steam query endpoint.
type A2SConfig struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// RconConfig configures the remote console endpoint.
type RconConfig struct {
	Address    string `json:"address"`
	Port       int    `json:"port"`
	Password   string `json:"password"`
	Permission string `json:"permission"`
	MaxClients int    `json:"maxClients"`
}

// GameConfig holds the session-level settings, including the scenario and
// the mod list the server loads.
type GameConfig struct {
	Name               string         `json:"name"`
	Password           string         `json:"password"`
	PasswordAdmin      string         `json:"passwordAdmin"`
	Admins             []string       `json:"admins"`
	ScenarioID         string         `json:"scenarioId"`
	MaxPlayers         int            `json:"maxPlayers"`
	Visible            bool           `json:"visible"`
	CrossPlatform      bool           `json:"crossPlatform"`
	SupportedPlatforms []string       `json:"supportedPlatforms"`
	GameProperties     GameProperties `json:"gameProperties"`
	Mods               []ModEntry     `json:"mods"`
}

// GameProperties holds tunables forwarded verbatim to the server runtime.
type GameProperties struct {
	ServerMaxViewDistance    int  `json:"serverMaxViewDistance"`
	ServerMinGrassDistance   int  `json:"serverMinGrassDistance"`
	NetworkViewDistance      int  `json:"networkViewDistance"`
	DisableThirdPerson       bool `json:"disableThirdPerson"`
	FastValidation           bool `json:"fastValidation"`
	BattlEye                 bool `json:"battlEye"`
	VONDisableUI             bool `json:"VONDisableUI"`
	VONDisableDirectSpeechUI bool `json:"VONDisableDirectSpeechUI"`
}

// ModEntry is one entry of the server's mod list.
type ModEntry struct {
	ModID string `json:"modId"`
}

// OperatingConfig holds host-side operational settings.
type OperatingConfig struct {
	LobbyPlayerSynchronise  bool `json:"lobbyPlayerSynchronise"`
	PlayerSaveTime          int  `json:"playerSaveTime"`
	AILimit                 int  `json:"aiLimit"`
	SlotReservationTimeout  int  `json:"slotReservationTimeout"`
	DisableNavmeshStreaming bool `json:"disableNavmeshStreaming"`
}

// Baseline returns a fresh copy of the embedded baseline template. Each call
// returns an independent value, so callers can mutate freely.
func Baseline() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := json.Unmarshal(baselineJSON, &cfg); err != nil {
		return nil, fmt.Errorf("parse baseline config: %w", err)
	}
	return &cfg, nil
}
