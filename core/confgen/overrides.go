package confgen

import (
	"fmt"
	"sort"
	"strconv"
)

// setter applies one string-encoded value to its field on the config.
type setter func(cfg *ServerConfig, value string) error

// overrideFields is the fixed registry of override paths. Every profile
// override must name one of these paths. game.scenarioId is deliberately
// absent: scenario selection is its own synthesis stage and is validated
// against the dependency graph, not overridden blindly.
var overrideFields = map[string]setter{
	"bindAddress":   func(c *ServerConfig, v string) error { c.BindAddress = v; return nil },
	"bindPort":      intSetter(func(c *ServerConfig, n int) { c.BindPort = n }),
	"publicAddress": func(c *ServerConfig, v string) error { c.PublicAddress = v; return nil },
	"publicPort":    intSetter(func(c *ServerConfig, n int) { c.PublicPort = n }),

	"a2s.address": func(c *ServerConfig, v string) error { c.A2S.Address = v; return nil },
	"a2s.port":    intSetter(func(c *ServerConfig, n int) { c.A2S.Port = n }),

	"rcon.address":    func(c *ServerConfig, v string) error { c.Rcon.Address = v; return nil },
	"rcon.port":       intSetter(func(c *ServerConfig, n int) { c.Rcon.Port = n }),
	"rcon.password":   func(c *ServerConfig, v string) error { c.Rcon.Password = v; return nil },
	"rcon.permission": func(c *ServerConfig, v string) error { c.Rcon.Permission = v; return nil },
	"rcon.maxClients": intSetter(func(c *ServerConfig, n int) { c.Rcon.MaxClients = n }),

	"game.name":          func(c *ServerConfig, v string) error { c.Game.Name = v; return nil },
	"game.password":      func(c *ServerConfig, v string) error { c.Game.Password = v; return nil },
	"game.passwordAdmin": func(c *ServerConfig, v string) error { c.Game.PasswordAdmin = v; return nil },
	"game.maxPlayers":    intSetter(func(c *ServerConfig, n int) { c.Game.MaxPlayers = n }),
	"game.visible":       boolSetter(func(c *ServerConfig, b bool) { c.Game.Visible = b }),
	"game.crossPlatform": boolSetter(func(c *ServerConfig, b bool) { c.Game.CrossPlatform = b }),

	"game.gameProperties.serverMaxViewDistance":  intSetter(func(c *ServerConfig, n int) { c.Game.GameProperties.ServerMaxViewDistance = n }),
	"game.gameProperties.serverMinGrassDistance": intSetter(func(c *ServerConfig, n int) { c.Game.GameProperties.ServerMinGrassDistance = n }),
	"game.gameProperties.networkViewDistance":    intSetter(func(c *ServerConfig, n int) { c.Game.GameProperties.NetworkViewDistance = n }),
	"game.gameProperties.disableThirdPerson":     boolSetter(func(c *ServerConfig, b bool) { c.Game.GameProperties.DisableThirdPerson = b }),
	"game.gameProperties.fastValidation":         boolSetter(func(c *ServerConfig, b bool) { c.Game.GameProperties.FastValidation = b }),
	"game.gameProperties.battlEye":               boolSetter(func(c *ServerConfig, b bool) { c.Game.GameProperties.BattlEye = b }),
	"game.gameProperties.VONDisableUI":           boolSetter(func(c *ServerConfig, b bool) { c.Game.GameProperties.VONDisableUI = b }),
	"game.gameProperties.VONDisableDirectSpeechUI": boolSetter(func(c *ServerConfig, b bool) { c.Game.GameProperties.VONDisableDirectSpeechUI = b }),

	"operating.lobbyPlayerSynchronise":  boolSetter(func(c *ServerConfig, b bool) { c.Operating.LobbyPlayerSynchronise = b }),
	"operating.playerSaveTime":          intSetter(func(c *ServerConfig, n int) { c.Operating.PlayerSaveTime = n }),
	"operating.aiLimit":                 intSetter(func(c *ServerConfig, n int) { c.Operating.AILimit = n }),
	"operating.slotReservationTimeout":  intSetter(func(c *ServerConfig, n int) { c.Operating.SlotReservationTimeout = n }),
	"operating.disableNavmeshStreaming": boolSetter(func(c *ServerConfig, b bool) { c.Operating.DisableNavmeshStreaming = b }),
}

func intSetter(assign func(*ServerConfig, int)) setter {
	return func(c *ServerConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("expected integer, got %q", v)
		}
		assign(c, n)
		return nil
	}
}

func boolSetter(assign func(*ServerConfig, bool)) setter {
	return func(c *ServerConfig, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected boolean, got %q", v)
		}
		assign(c, b)
		return nil
	}
}

// IsOverridablePath reports whether path names a field in the override
// registry.
func IsOverridablePath(path string) bool {
	_, ok := overrideFields[path]
	return ok
}

// OverridablePaths returns the sorted list of valid override paths, for
// surfacing the schema to clients.
func OverridablePaths() []string {
	paths := make([]string, 0, len(overrideFields))
	for path := range overrideFields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// applyOverrides applies overrides in sorted path order so the operation is
// deterministic regardless of map iteration order.
func applyOverrides(cfg *ServerConfig, overrides map[string]string) error {
	paths := make([]string, 0, len(overrides))
	for path := range overrides {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		set, ok := overrideFields[path]
		if !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidOverride, path)
		}
		if err := set(cfg, overrides[path]); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidOverride, path, err)
		}
	}
	return nil
}
