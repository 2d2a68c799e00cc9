package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayedDelivery(t *testing.T) {
	t.Run("queues until DoWork", func(t *testing.T) {
		r := quietRegistry()
		sig := MustSignal[func(string, int)](r)
		slot := MustSlot[func(string, int)](r)

		var got []call
		slot.SetCallable(func(s string, i int) {
			got = append(got, call{s: s, i: i})
		})
		_, err := Connect(sig, slot, Delayed)
		require.NoError(t, err)

		emit := sig.Emitter()
		emit("a", 1)
		emit("b", 2)
		emit("c", 3)

		assert.Empty(t, got)
		assert.Equal(t, 3, slot.Pending())

		n := slot.DoWork()

		assert.Equal(t, 3, n)
		assert.Equal(t, 0, slot.Pending())
		assert.Equal(t, []call{{s: "a", i: 1}, {s: "b", i: 2}, {s: "c", i: 3}}, got)
		assert.Equal(t, 0, slot.DoWork())

		stats := r.Stats()
		assert.Equal(t, uint64(3), stats.Enqueued)
		assert.Equal(t, uint64(3), stats.Drained)
	})

	t.Run("queues projected arguments", func(t *testing.T) {
		r := quietRegistry()
		sig := MustSignal[func(int, string)](r)
		slot := MustSlot[func(float64)](r)

		var got []float64
		slot.SetCallable(func(v float64) { got = append(got, v) })
		_, err := Connect(sig, slot, Delayed)
		require.NoError(t, err)

		sig.Emitter()(7, "dropped")
		slot.DoWork()

		assert.Equal(t, []float64{7}, got)
	})

	t.Run("entries are dequeued before their call", func(t *testing.T) {
		r := quietRegistry()
		sig := MustSignal[func(int)](r)
		slot := MustSlot[func(int)](r)

		var pendingSeen []int
		slot.SetCallable(func(int) {
			pendingSeen = append(pendingSeen, slot.Pending())
		})
		_, err := Connect(sig, slot, Delayed)
		require.NoError(t, err)

		sig.Emitter()(1)
		sig.Emitter()(2)
		slot.DoWork()

		assert.Equal(t, []int{1, 0}, pendingSeen)
	})

	t.Run("drains entries queued during the drain", func(t *testing.T) {
		r := quietRegistry()
		sig := MustSignal[func(int)](r)
		slot := MustSlot[func(int)](r)

		var got []int
		slot.SetCallable(func(v int) {
			got = append(got, v)
			if v < 3 {
				sig.Emitter()(v + 1)
			}
		})
		_, err := Connect(sig, slot, Delayed)
		require.NoError(t, err)

		sig.Emitter()(1)
		n := slot.DoWork()

		assert.Equal(t, 3, n)
		assert.Equal(t, []int{1, 2, 3}, got)
		assert.Equal(t, 0, slot.Pending())
	})

	t.Run("callable replacement keeps queued entries", func(t *testing.T) {
		r := quietRegistry()
		sig := MustSignal[func(int)](r)
		slot := MustSlot[func(int)](r)
		_, err := Connect(sig, slot, Delayed)
		require.NoError(t, err)

		var old, replaced []int
		slot.SetCallable(func(v int) { old = append(old, v) })
		sig.Emitter()(1)
		slot.SetCallable(func(v int) { replaced = append(replaced, v) })
		slot.DoWork()

		assert.Empty(t, old)
		assert.Equal(t, []int{1}, replaced)
	})

	t.Run("queued entries survive disconnect", func(t *testing.T) {
		r := quietRegistry()
		sig := MustSignal[func(int)](r)
		slot := MustSlot[func(int)](r)
		var got []int
		slot.SetCallable(func(v int) { got = append(got, v) })

		conn, err := Connect(sig, slot, Delayed)
		require.NoError(t, err)
		sig.Emitter()(1)
		require.True(t, conn.Disconnect())
		sig.Emitter()(2)

		assert.Equal(t, 1, slot.Pending())
		slot.DoWork()
		assert.Equal(t, []int{1}, got)
	})

	t.Run("close drops queued entries", func(t *testing.T) {
		r := quietRegistry()
		sig := MustSignal[func(int)](r)
		slot := MustSlot[func(int)](r)
		count := 0
		slot.SetCallable(func(int) { count++ })
		_, err := Connect(sig, slot, Delayed)
		require.NoError(t, err)

		sig.Emitter()(1)
		sig.Emitter()(2)
		slot.Close()

		assert.Equal(t, 0, slot.Pending())
		assert.Equal(t, 0, slot.DoWork())
		assert.Equal(t, 0, count)
		assert.Equal(t, 0, sig.NumConnections())
		assert.Equal(t, uint64(2), r.Stats().Dropped)
	})

	t.Run("closing the slot mid-drain stops the drain", func(t *testing.T) {
		r := quietRegistry()
		sig := MustSignal[func(int)](r)
		slot := MustSlot[func(int)](r)
		var got []int
		slot.SetCallable(func(v int) {
			got = append(got, v)
			slot.Close()
		})
		_, err := Connect(sig, slot, Delayed)
		require.NoError(t, err)

		sig.Emitter()(1)
		sig.Emitter()(2)

		assert.Equal(t, 1, slot.DoWork())
		assert.Equal(t, []int{1}, got)
		assert.Equal(t, uint64(1), r.Stats().Dropped)
	})

	t.Run("direct and delayed on one slot", func(t *testing.T) {
		r := quietRegistry()
		direct := MustSignal[func(string)](r)
		delayed := MustSignal[func(string)](r)
		slot := MustSlot[func(string)](r)
		var got []string
		slot.SetCallable(func(s string) { got = append(got, s) })

		_, err := Connect(direct, slot, Direct)
		require.NoError(t, err)
		_, err = Connect(delayed, slot, Delayed)
		require.NoError(t, err)

		delayed.Emitter()("later")
		direct.Emitter()("now")
		assert.Equal(t, []string{"now"}, got)

		slot.DoWork()
		assert.Equal(t, []string{"now", "later"}, got)
		assert.Equal(t, 2, slot.NumConnections())
	})
}
