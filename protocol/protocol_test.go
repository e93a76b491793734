package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionByteRoundTrip(t *testing.T) {
	for _, ver := range []Version{VersionV3, VersionV4, VersionV5} {
		for _, dir := range []Direction{DirectionRequest, DirectionResponse} {
			b := VersionByte(dir, ver)
			gotDir, gotVer := SplitVersionByte(b)
			assert.Equal(t, dir, gotDir)
			assert.Equal(t, ver, gotVer)
		}
	}
}

func TestResponseVersionByteHasHighBitSet(t *testing.T) {
	b := VersionByte(DirectionResponse, VersionV4)
	assert.Equal(t, byte(0x84), b)
	assert.NotZero(t, b&0x80)
}

func TestRequestVersionByteHasNoHighBit(t *testing.T) {
	b := VersionByte(DirectionRequest, VersionV4)
	assert.Equal(t, byte(0x04), b)
	assert.Zero(t, b&0x80)
}

func TestVersionIsBeta(t *testing.T) {
	assert.False(t, VersionV3.IsBeta())
	assert.False(t, VersionV4.IsBeta())
	assert.True(t, VersionV5.IsBeta())
}

func TestFlagsHas(t *testing.T) {
	f := FlagCompression | FlagTracing
	assert.True(t, f.Has(FlagCompression))
	assert.True(t, f.Has(FlagTracing))
	assert.False(t, f.Has(FlagWarning))
	assert.True(t, f.Has(FlagCompression|FlagTracing))
}

func TestOpcodeKnownValues(t *testing.T) {
	cases := map[Opcode]string{
		OpError:         "ERROR",
		OpStartup:       "STARTUP",
		OpReady:         "READY",
		OpAuthenticate:  "AUTHENTICATE",
		OpOptions:       "OPTIONS",
		OpSupported:     "SUPPORTED",
		OpQuery:         "QUERY",
		OpResult:        "RESULT",
		OpPrepare:       "PREPARE",
		OpExecute:       "EXECUTE",
		OpRegister:      "REGISTER",
		OpEvent:         "EVENT",
		OpBatch:         "BATCH",
		OpAuthChallenge: "AUTH_CHALLENGE",
		OpAuthResponse:  "AUTH_RESPONSE",
		OpAuthSuccess:   "AUTH_SUCCESS",
	}
	for op, name := range cases {
		assert.Equal(t, name, op.String())
	}
	// The wire value for OPTIONS is 0x05.
	assert.Equal(t, Opcode(0x05), OpOptions)
}

func TestEventTypeParseRoundTrip(t *testing.T) {
	for _, et := range []EventType{EventTopologyChange, EventStatusChange, EventSchemaChange} {
		parsed, err := ParseEventType(et.String())
		assert.NoError(t, err)
		assert.Equal(t, et, parsed)
	}
	_, err := ParseEventType("NOT_A_REAL_EVENT")
	assert.Error(t, err)
}

func TestSchemaChangeTargetParseRoundTrip(t *testing.T) {
	for _, tg := range []SchemaChangeTarget{TargetKeyspace, TargetTable, TargetType, TargetFunction, TargetAggregate} {
		parsed, err := ParseSchemaChangeTarget(tg.String())
		assert.NoError(t, err)
		assert.Equal(t, tg, parsed)
	}
}

func TestWriteTypeParseRoundTrip(t *testing.T) {
	parsed, err := ParseWriteType(WriteSimple.String())
	assert.NoError(t, err)
	assert.Equal(t, WriteSimple, parsed)

	_, err = ParseWriteType("BOGUS")
	assert.Error(t, err)
}

func TestCQLVersionConstant(t *testing.T) {
	assert.Equal(t, "3.0.0", CQLVersion)
}
