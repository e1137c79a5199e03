package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatus_Predicates(t *testing.T) {
	success := TxnSuccess()
	assert.True(t, success.IsSuccess())
	assert.True(t, success.IsKept())
	assert.False(t, success.IsDiscarded())
	assert.Equal(t, StatusCode(0), success.Code())
	assert.Equal(t, "Success", success.String())

	kept := KeptWithError(StatusAborted)
	assert.False(t, kept.IsSuccess())
	assert.True(t, kept.IsKept())
	assert.False(t, kept.IsDiscarded())
	assert.Equal(t, StatusAborted, kept.Code())

	discarded := Discarded(StatusSequenceNumberTooOld)
	assert.False(t, discarded.IsSuccess())
	assert.False(t, discarded.IsKept())
	assert.True(t, discarded.IsDiscarded())
	assert.Equal(t, StatusSequenceNumberTooOld, discarded.Code())
}

func TestWriteSet_Builders(t *testing.T) {
	key := ResourceKey(AddressOne, AccountResourceTag())

	var ws WriteSet
	ws = ws.Set(key, []byte{1})
	ws = ws.Delete(key)

	assert.Len(t, ws, 2)
	assert.False(t, ws[0].Deletion)
	assert.True(t, ws[1].Deletion)
	assert.True(t, ws[0].Key.Equal(ws[1].Key))
}
