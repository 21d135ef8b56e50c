// internal/protocol/codec_test.go
package protocol

import (
	"testing"

	engine "github.com/jason-s-yu/pathgame/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		msg  Message
		want string
	}{
		{Ready(), "^"},
		{PathMessage("4;::-Mo1Do1::-"), "PATH 4;::-Mo1Do1::-"},
		{YourTurn(3, 10, 2), "YT 3,10,2"},
		{Move(2), "DO 2"},
		{AskDiscard(), "RI"},
		{Discard(engine.CardE), "RD E"},
		{Happened(1, 3, 10, engine.CardA, 1), "HAP 1,3,10,+A"},
		{Happened(0, 4, 7, engine.CardC, -1), "HAP 0,4,7,-C"},
		{Happened(0, 4, 7, engine.CardC, 0), "HAP 0,4,7,0"},
		{Done(engine.EndDeckEmpty), "DONE deck"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Encode(tc.msg))
	}
}

func TestDecodeAcceptsEncoded(t *testing.T) {
	for _, line := range []string{
		"^", "RI", "PATH 4;::-Mo1Do1::-", "YT 0,7,3", "DO 12", "RD B",
		"HAP 2,5,13,0", "HAP 1,3,10,+D", "HAP 1,4,10,-A", "YT 2,-4,1", "HAP 0,2,-1,0",
		"DONE end", "DONE deck", "DONE comm", "DONE intr",
	} {
		m, err := Decode(line + "\n")
		require.NoError(t, err, line)
		assert.Equal(t, line, Encode(m))
	}
}

func TestDecodeFields(t *testing.T) {
	m, err := Decode("HAP 1,3,10,+D")
	require.NoError(t, err)
	assert.Equal(t, KindHappening, m.Kind)
	assert.Equal(t, 1, m.Player)
	assert.Equal(t, 3, m.Site)
	assert.Equal(t, 10, m.Money)
	assert.Equal(t, engine.CardD, m.Card)
	assert.Equal(t, 1, m.Delta)

	m, err = Decode("YT 6,10,2")
	require.NoError(t, err)
	assert.Equal(t, YourTurn(6, 10, 2), m)

	// Money is signed; no other field is.
	m, err = Decode("YT 6,-3,2")
	require.NoError(t, err)
	assert.Equal(t, YourTurn(6, -3, 2), m)
	m, err = Decode("HAP 1,4,-12,-A")
	require.NoError(t, err)
	assert.Equal(t, -12, m.Money)
	assert.Equal(t, -1, m.Delta)
}

func TestDecodeMalformed(t *testing.T) {
	for _, line := range []string{
		"", " ", "^^", "ri", "RI ", "DO", "DO ", "DO 0", "DO -1", "DO +2", "DO 2 ", "DO  2", "DO 1.5",
		"do 1", "RD", "RD F", "RD AB", "RD a",
		"YT 1,2", "YT 1,2,3,4", "YT 1, 2,3", "YT 1,,3",
		"YT -1,2,3", "YT 1,2,-3", "YT 1,-,3", "YT 1,-0,3", "YT 1,+2,3", "HAP -1,2,3,0", "HAP 1,-2,3,0",
		"HAP 1,2,3", "HAP 1,2,3,A", "HAP 1,2,3,+", "HAP 1,2,3,*A", "HAP 1,2,3,+AB", "HAP a,2,3,0",
		"DONE", "DONE none", "DONE over", "PATH", "PATH 4;::- Mo1",
		"HELLO 1", "DO 1\r",
	} {
		_, err := Decode(line)
		assert.ErrorIs(t, err, ErrMalformed, "%q", line)
	}
}

func TestPublicHidesCard(t *testing.T) {
	m := Happened(1, 3, 10, engine.CardA, 1)
	assert.Equal(t, "HAP 1,3,10,0", Encode(m.Public()))
	assert.Equal(t, "HAP 1,3,10,+A", Encode(m), "Public must not modify the original")
	assert.Equal(t, YourTurn(1, 2, 3), YourTurn(1, 2, 3).Public())
}
