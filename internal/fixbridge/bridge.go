package fixbridge

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchcore/internal/engine"
)

// tagCheckSum (10) ends every FIX message; it is the boundary used to
// split a byte stream into individual messages.
const tagCheckSum = "10="

// Settings holds the key=value session-settings file the FIX bridge CLI
// takes as its one positional argument, in place of the full SessionID/
// DataDictionary configuration a real QuickFIX settings file carries.
type Settings struct {
	ListenAddress string
	SenderCompID  string
	TargetCompID  string
	raw           map[string]string
}

// LoadSettings parses a key=value-per-line settings file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("fixbridge: reading settings file: %w", err)
	}

	raw := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		raw[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	s := Settings{raw: raw}
	s.ListenAddress = raw["SocketAcceptAddress"]
	if s.ListenAddress == "" {
		s.ListenAddress = "0.0.0.0:9878"
	}
	s.SenderCompID = raw["SenderCompID"]
	s.TargetCompID = raw["TargetCompID"]
	return s, nil
}

// Bridge dispatches parsed NewOrderSingle messages onto the engine's
// Command Surface. It carries no FIX session state.
type Bridge struct {
	Engine   *engine.Engine
	Settings Settings
}

// New builds a Bridge over eng using the given session settings.
func New(eng *engine.Engine, settings Settings) *Bridge {
	return &Bridge{Engine: eng, Settings: settings}
}

// HandleRaw parses a single tag=value message and, if it's a
// NewOrderSingle, admits it via Add. Non-order administrative messages
// (logon/heartbeat/etc.) are accepted and silently ignored, matching the
// stated scope: no session state reaches the engine. On a successful
// admission it returns an execution acknowledgment line ready to write
// back to the session, padding the symbol to the 8-byte field width
// legacy FIX consumers expect (see engine.PadSymbol).
func (b *Bridge) HandleRaw(raw string) (ack string, err error) {
	msg, err := ParseMessage(raw)
	if errors.Is(err, ErrNotNewOrderSingle) {
		log.Debug().Msg("fixbridge: ignoring non-order FIX message")
		return "", nil
	}
	if err != nil {
		return "", err
	}

	id, err := clOrdIDToOrderID(msg.ClOrdID)
	if err != nil {
		return "", fmt.Errorf("fixbridge: %w", err)
	}

	side, ok := engine.ParseSide(msg.Side)
	if !ok {
		return "", engine.ErrBadSide
	}

	_, err = b.Engine.Add(engine.Order{
		ID:       id,
		Symbol:   engine.NormalizeSymbol(msg.Symbol),
		Price:    msg.Price,
		Quantity: msg.Qty,
		Side:     side,
		Type:     engine.Limit,
	})
	if err != nil {
		log.Error().Err(err).Str("symbol", msg.Symbol).Str("clOrdID", msg.ClOrdID).Msg("fixbridge: order rejected")
		return "", err
	}

	log.Info().Str("symbol", msg.Symbol).Str("clOrdID", msg.ClOrdID).Uint64("id", id).Msg("fixbridge: order admitted")
	return fmt.Sprintf("ACK clOrdID=%s symbol=%s", msg.ClOrdID, engine.PadSymbol(engine.NormalizeSymbol(msg.Symbol))), nil
}

// clOrdIDToOrderID mirrors the reference bridge's std::atoi(ClOrdID)
// conversion: the engine's order ids are uint64s, FIX ClOrdIDs are
// strings, so numeric ClOrdIDs map straight through.
func clOrdIDToOrderID(clOrdID string) (uint64, error) {
	return strconv.ParseUint(clOrdID, 10, 64)
}

// Serve accepts connections on the configured listen address and runs one
// reader per connection until ctx is cancelled.
func (b *Bridge) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", b.Settings.ListenAddress)
	if err != nil {
		return fmt.Errorf("fixbridge: listen: %w", err)
	}

	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		<-ctx.Done()
		return listener.Close()
	})

	log.Info().Str("address", b.Settings.ListenAddress).Msg("fixbridge listening")
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return t.Wait()
			default:
				return err
			}
		}
		sessionID := uuid.New().String()
		t.Go(func() error {
			return b.handleConn(t, sessionID, conn)
		})
	}
}

func (b *Bridge) handleConn(t *tomb.Tomb, sessionID string, conn net.Conn) error {
	defer conn.Close()
	logger := log.With().Str("session_id", sessionID).Logger()
	logger.Info().Msg("fixbridge: session connected")

	scanner := bufio.NewScanner(conn)
	scanner.Split(splitFixMessages)
	for scanner.Scan() {
		select {
		case <-t.Dying():
			return nil
		default:
		}
		ack, err := b.HandleRaw(scanner.Text())
		if err != nil {
			logger.Warn().Err(err).Msg("fixbridge: message rejected")
			continue
		}
		if ack != "" {
			if _, err := conn.Write([]byte(ack + "\n")); err != nil {
				logger.Warn().Err(err).Msg("fixbridge: failed writing acknowledgment")
				return nil
			}
		}
	}
	logger.Info().Msg("fixbridge: session disconnected")
	return nil
}

// splitFixMessages is a bufio.SplitFunc that advances past one complete
// FIX message at a time, using the CheckSum(10) field as the terminator.
func splitFixMessages(data []byte, atEOF bool) (advance int, token []byte, err error) {
	// Match the tag only at a field boundary, so tags such as 110= are not
	// mistaken for CheckSum.
	idx := bytes.Index(data, []byte(SOH+tagCheckSum))
	if idx < 0 {
		if atEOF && len(data) > 0 {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
	idx++
	end := bytes.IndexByte(data[idx:], SOH[0])
	if end < 0 {
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
	total := idx + end + 1
	return total, data[:total], nil
}
