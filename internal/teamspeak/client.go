// internal/teamspeak/client.go
package teamspeak

import (
	"fmt"
	"time"

	"github.com/multiplay/go-ts3"

	"albion-gold-bot/internal/infrastructure/config"
)

// ServerInfo is the snapshot /tsinfo renders.
type ServerInfo struct {
	Name           string
	ClientsOnline  int
	MaxClients     int
	ChannelsOnline int
	Uptime         time.Duration
	OnlineUsers    []string
}

// Client fetches status from a TeamSpeak ServerQuery endpoint. A fresh
// connection per request: /tsinfo is rare and ServerQuery sessions idle out.
type Client struct {
	cfg config.TeamSpeakConfig
}

func NewClient(cfg config.TeamSpeakConfig) *Client {
	return &Client{cfg: cfg}
}

// Info logs in, reads server info plus the client list, and disconnects.
func (c *Client) Info() (*ServerInfo, error) {
	conn, err := ts3.NewClient(fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("teamspeak connect: %w", err)
	}
	defer conn.Close()

	if err := conn.Login(c.cfg.Username, c.cfg.Password); err != nil {
		return nil, fmt.Errorf("teamspeak login: %w", err)
	}
	if err := conn.Use(c.cfg.VirtualServerID); err != nil {
		return nil, fmt.Errorf("teamspeak use server %d: %w", c.cfg.VirtualServerID, err)
	}

	server, err := conn.Server.Info()
	if err != nil {
		return nil, fmt.Errorf("teamspeak serverinfo: %w", err)
	}

	clients, err := conn.Server.ClientList()
	if err != nil {
		return nil, fmt.Errorf("teamspeak clientlist: %w", err)
	}

	info := &ServerInfo{
		Name:           server.Name,
		ClientsOnline:  server.ClientsOnline,
		MaxClients:     server.MaxClients,
		ChannelsOnline: server.ChannelsOnline,
		Uptime:         time.Duration(server.Uptime) * time.Second,
	}
	for _, client := range clients {
		// Type 0 is a voice client; query connections are not "online users".
		if client.Type == 0 {
			info.OnlineUsers = append(info.OnlineUsers, client.Nickname)
		}
	}
	return info, nil
}
