package nats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudooom.codex.logic/pkg/proto"
)

func TestShardStable(t *testing.T) {
	for _, game := range []string{"alpha", "bravo", "", "a-much-longer-game-name"} {
		first := shard(game, 8)
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, 8)
		for range 5 {
			assert.Equal(t, first, shard(game, 8))
		}
	}
	assert.Equal(t, 0, shard("anything", 1))
}

type echoHandler struct{}

func (echoHandler) HandleGameRequest(_ context.Context, req *proto.GameRequest) *proto.GameResponse {
	return &proto.GameResponse{ReqId: req.ReqId, Game: req.Game, Ok: true}
}

// newTestConn 连接本地 NATS，不可用时跳过
func newTestConn(t *testing.T) *nats.Conn {
	t.Helper()
	nc, err := nats.Connect(nats.DefaultURL, nats.Timeout(time.Second))
	if err != nil {
		t.Skipf("nats not available: %v", err)
	}
	t.Cleanup(nc.Close)
	return nc
}

func TestSubscriberReplies(t *testing.T) {
	nc := newTestConn(t)

	sub := NewActionSubscriber(nc, echoHandler{}, SubscriberConfig{WorkerCount: 2, BufferSize: 8})
	require.NoError(t, sub.Start(context.Background()))
	t.Cleanup(func() { _ = sub.Stop() })

	data, err := json.Marshal(proto.GameRequest{ReqId: "r1", Game: "table", Player: "alice", Action: proto.ActionView})
	require.NoError(t, err)

	msg, err := nc.Request(proto.SubjectLogicAction, data, 2*time.Second)
	require.NoError(t, err)

	var resp proto.GameResponse
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	assert.True(t, resp.Ok)
	assert.Equal(t, "r1", resp.ReqId)
	assert.Equal(t, "table", resp.Game)

	msg, err = nc.Request(proto.SubjectLogicAction, []byte("not json"), 2*time.Second)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(msg.Data, &resp))
	assert.False(t, resp.Ok)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
}

func TestPublisherSubject(t *testing.T) {
	nc := newTestConn(t)

	ch := make(chan *nats.Msg, 1)
	s, err := nc.ChanSubscribe(proto.BuildGameViewSubject("table"), ch)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Unsubscribe() })
	require.NoError(t, nc.Flush())

	p := NewViewPublisher(nc)
	require.NoError(t, p.PublishView("table", "PLACE_CARD", 7, json.RawMessage(`{"name":"table"}`)))

	select {
	case msg := <-ch:
		var push proto.ViewPush
		require.NoError(t, json.Unmarshal(msg.Data, &push))
		assert.Equal(t, "table", push.Game)
		assert.Equal(t, "PLACE_CARD", push.Phase)
		assert.Equal(t, uint64(7), push.Version)
		assert.JSONEq(t, `{"name":"table"}`, string(push.View))
	case <-time.After(2 * time.Second):
		t.Fatal("view push not received")
	}
}
