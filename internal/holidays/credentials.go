package holidays

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// KeyProvider supplies the X-Api-Key credential for the holiday API
type KeyProvider interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a credential taken verbatim from configuration
type StaticKey string

// APIKey returns the configured key
func (k StaticKey) APIKey(context.Context) (string, error) {
	if strings.TrimSpace(string(k)) == "" {
		return "", errors.New("holidays API key is not configured")
	}
	return string(k), nil
}

// CommandKeyProvider obtains the key from an external command
// (e.g. "pass show api-ninjas") and reuses it until refreshInterval elapses.
type CommandKeyProvider struct {
	mu              sync.RWMutex
	key             string
	lastRefresh     time.Time
	refreshInterval time.Duration
	command         string
	logger          *zap.Logger
	now             func() time.Time
}

// NewCommandKeyProvider creates a command-backed key provider.
// A zero refreshInterval keeps the first key for the lifetime of the process.
func NewCommandKeyProvider(command string, refreshInterval time.Duration, logger *zap.Logger) *CommandKeyProvider {
	return &CommandKeyProvider{
		command:         command,
		refreshInterval: refreshInterval,
		logger:          logger,
		now:             time.Now,
	}
}

// APIKey returns the cached key or runs the command to obtain a fresh one
func (p *CommandKeyProvider) APIKey(ctx context.Context) (string, error) {
	p.mu.RLock()
	if p.key != "" && !p.expired() {
		key := p.key
		p.mu.RUnlock()
		return key, nil
	}
	p.mu.RUnlock()

	key, err := p.run(ctx)
	if err != nil {
		p.mu.RLock()
		existing := p.key
		p.mu.RUnlock()

		// Keep using a stale key rather than failing the fetch
		if existing != "" {
			p.logger.Warn("Failed to refresh API key, continuing with previous key",
				zap.Error(err))
			return existing, nil
		}
		return "", err
	}

	p.mu.Lock()
	p.key = key
	p.lastRefresh = p.now()
	p.mu.Unlock()

	p.logger.Debug("API key refreshed from command",
		zap.String("command", p.executable()))

	return key, nil
}

// LastRefresh returns the time the key was last obtained
func (p *CommandKeyProvider) LastRefresh() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRefresh
}

func (p *CommandKeyProvider) expired() bool {
	if p.refreshInterval <= 0 {
		return false
	}
	return p.now().Sub(p.lastRefresh) >= p.refreshInterval
}

func (p *CommandKeyProvider) executable() string {
	parts := strings.Fields(p.command)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func (p *CommandKeyProvider) run(ctx context.Context) (string, error) {
	parts := strings.Fields(p.command)
	if len(parts) == 0 {
		return "", errors.New("empty api_key_cmd")
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("api_key_cmd failed: %s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("failed to execute api_key_cmd: %w", err)
	}

	key := strings.TrimSpace(string(output))
	if key == "" {
		return "", errors.New("empty API key received from api_key_cmd")
	}

	return key, nil
}
