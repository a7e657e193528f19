package gsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTypeByName(t *testing.T) {
	tt := []struct {
		desc     string
		value    string
		expected MemoryType
		invalid  bool
	}{
		{desc: "sim", value: "SM", expected: SIMMemory},
		{desc: "lower case with spaces", value: " me ", expected: PhoneMemory},
		{desc: "status reports", value: "SR", expected: StatusReportMemory},
		{desc: "unknown", value: "XX", invalid: true},
		{desc: "empty", value: "", invalid: true},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			actual, err := MemoryTypeByName(tc.value)
			if tc.invalid {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
			assert.True(t, actual.Valid())
		})
	}
}

func TestAddress_International(t *testing.T) {
	assert.True(t, Address("+79526191914").International())
	assert.False(t, Address("Tele2").International())
	assert.False(t, Address("900").International())
	assert.False(t, Address("+7952a").International())
}

func TestDecoderByName(t *testing.T) {
	decoder, err := DecoderByName("utf-8")
	require.NoError(t, err)
	assert.Nil(t, decoder)

	decoder, err = DecoderByName("")
	require.NoError(t, err)
	assert.Nil(t, decoder)

	decoder, err = DecoderByName("cp1251")
	require.NoError(t, err)
	require.NotNil(t, decoder)
	decoded, err := decoder.String("\xcf\xf0\xe8\xe2\xe5\xf2")
	require.NoError(t, err)
	assert.Equal(t, "Привет", decoded)

	_, err = DecoderByName("EBCDIC")
	assert.Error(t, err)
}
