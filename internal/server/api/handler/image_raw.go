package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"

	"github.com/vmbx/vmbx/apitypes"
	"github.com/vmbx/vmbx/internal/log"
	"github.com/vmbx/vmbx/internal/node"
	"github.com/vmbx/vmbx/internal/server/api"
)

// ImageRaw subscribes the connection to the node. It writes a
// SubscribeResponse line and then one binary apitypes.Image per frame until
// the client disconnects.
func ImageRaw(n *node.Node, raw log.RawLogger) api.StreamHandlerFunc {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return func(ctx context.Context, conn net.Conn, logger *slog.Logger) error {
		sub, err := n.Subscribe()
		if err != nil {
			return err
		}
		defer func() { _ = sub.Close() }()
		logger = logger.With("subscriber", sub.ID())

		ack, err := json.Marshal(apitypes.SubscribeResponse{SubscriberID: sub.ID()})
		if err != nil {
			return err
		}
		if _, err := conn.Write(append(ack, '\n')); err != nil {
			logger.Debug("write subscribe ack", "error", err)
			return nil
		}

		var sent uint64
		for {
			select {
			case <-ctx.Done():
				logger.Info("image subscriber left", "sent", sent, "dropped", sub.Dropped())
				return nil
			case img, ok := <-sub.C():
				if !ok {
					logger.Info("image subscription ended by node", "sent", sent)
					return nil
				}
				msg := apitypes.Image{
					FrameID:   img.FrameID,
					Timestamp: img.Timestamp,
					Width:     img.Width,
					Height:    img.Height,
					Step:      img.Step,
					Encoding:  img.Encoding,
					Data:      img.Data,
				}
				data, err := msg.MarshalBinary()
				if err != nil {
					logger.Error("failed to marshal image", "error", err)
					continue
				}
				raw.Log(false, data)
				if _, err := conn.Write(data); err != nil {
					logger.Debug("image write failed", "error", err)
					return nil
				}
				sent++
			}
		}
	}
}
