package imagebuf

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"valid RGBA8", 100, 100, FormatRGBA8, nil},
		{"valid Gray8", 50, 50, FormatGray8, nil},
		{"valid GrayAlpha8", 3, 7, FormatGrayAlpha8, nil},
		{"1x1 minimum", 1, 1, FormatRGB8, nil},
		{"zero width", 0, 100, FormatRGBA8, ErrInvalidDimensions},
		{"negative height", 100, -1, FormatRGBA8, ErrInvalidDimensions},
		{"invalid format", 100, 100, Format(255), ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := New(tt.width, tt.height, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			assert.Equal(t, image.Pt(tt.width, tt.height), buf.Size())
			assert.Equal(t, tt.format.Channels(), buf.Channels())
			assert.Len(t, buf.Pix(), tt.format.ImageBytes(tt.width, tt.height))
		})
	}
}

func TestFormatForChannels(t *testing.T) {
	for n, want := range map[int]Format{1: FormatGray8, 2: FormatGrayAlpha8, 3: FormatRGB8, 4: FormatRGBA8} {
		got, err := FormatForChannels(n)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, n, got.Channels())
	}

	for _, n := range []int{0, 5, -1} {
		_, err := FormatForChannels(n)
		assert.ErrorIs(t, err, ErrInvalidFormat, "channels=%d", n)
	}
}

func TestFromRaw(t *testing.T) {
	data := make([]byte, 4*4*2)
	buf, err := FromRaw(data, 4, 4, FormatGrayAlpha8, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Channels())

	_, err = FromRaw(data, 4, 4, FormatRGBA8, 16)
	assert.ErrorIs(t, err, ErrDataTooSmall)

	_, err = FromRaw(data, 4, 4, FormatRGBA8, 8)
	assert.ErrorIs(t, err, ErrInvalidStride)
}

func TestGetSetRGBA(t *testing.T) {
	tests := []struct {
		format         Format
		r, g, b, a     uint8
		wr, wg, wb, wa uint8
	}{
		{FormatRGBA8, 10, 20, 30, 40, 10, 20, 30, 40},
		{FormatRGB8, 10, 20, 30, 40, 10, 20, 30, 255},
		{FormatGray8, 255, 255, 255, 7, 255, 255, 255, 255},
		{FormatGrayAlpha8, 0, 0, 0, 9, 0, 0, 0, 9},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			buf, err := New(2, 2, tt.format)
			require.NoError(t, err)
			require.NoError(t, buf.SetRGBA(1, 1, tt.r, tt.g, tt.b, tt.a))
			r, g, b, a := buf.GetRGBA(1, 1)
			assert.Equal(t, [4]uint8{tt.wr, tt.wg, tt.wb, tt.wa}, [4]uint8{r, g, b, a})
		})
	}
}

func TestSetRGBA_OutOfBounds(t *testing.T) {
	buf, err := New(2, 2, FormatRGBA8)
	require.NoError(t, err)
	assert.ErrorIs(t, buf.SetRGBA(2, 0, 1, 1, 1, 1), ErrOutOfBounds)
	r, g, b, a := buf.GetRGBA(-1, 0)
	assert.Zero(t, uint32(r)+uint32(g)+uint32(b)+uint32(a))
}

func TestPaste_SameFormatIntoLarger(t *testing.T) {
	src, err := New(3, 2, FormatRGBA8)
	require.NoError(t, err)
	src.Fill(200, 100, 50, 255)

	dst, err := New(4, 4, FormatRGBA8)
	require.NoError(t, err)
	dst.Fill(1, 2, 3, 4)

	dst.Paste(src)

	for y := range 4 {
		for x := range 4 {
			r, g, b, a := dst.GetRGBA(x, y)
			if x < 3 && y < 2 {
				assert.Equal(t, [4]uint8{200, 100, 50, 255}, [4]uint8{r, g, b, a}, "pixel (%d,%d)", x, y)
			} else {
				assert.Equal(t, [4]uint8{1, 2, 3, 4}, [4]uint8{r, g, b, a}, "pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestPaste_ConvertsChannels(t *testing.T) {
	src, err := New(2, 2, FormatRGB8)
	require.NoError(t, err)
	src.Fill(9, 8, 7, 0)

	dst, err := New(2, 2, FormatRGBA8)
	require.NoError(t, err)
	dst.Paste(src)

	r, g, b, a := dst.GetRGBA(1, 1)
	assert.Equal(t, [4]uint8{9, 8, 7, 255}, [4]uint8{r, g, b, a})
}

func TestPaste_ClipsToDestination(t *testing.T) {
	src, err := New(5, 5, FormatGray8)
	require.NoError(t, err)
	src.Fill(77, 77, 77, 255)

	dst, err := New(2, 3, FormatGray8)
	require.NoError(t, err)
	dst.Paste(src)

	for _, v := range dst.Pix() {
		assert.Equal(t, byte(77), v)
	}
}

func TestClone_IsDeep(t *testing.T) {
	buf, err := New(2, 2, FormatRGBA8)
	require.NoError(t, err)
	buf.Fill(1, 1, 1, 1)

	c := buf.Clone()
	require.NoError(t, c.SetRGBA(0, 0, 9, 9, 9, 9))

	r, _, _, _ := buf.GetRGBA(0, 0)
	assert.Equal(t, uint8(1), r)
}

func TestSubImage(t *testing.T) {
	buf, err := New(4, 4, FormatRGBA8)
	require.NoError(t, err)
	require.NoError(t, buf.SetRGBA(2, 1, 5, 6, 7, 8))

	sub := buf.SubImage(image.Rect(1, 1, 3, 3))
	require.NotNil(t, sub)
	assert.Equal(t, image.Pt(2, 2), sub.Size())
	r, g, b, a := sub.GetRGBA(1, 0)
	assert.Equal(t, [4]uint8{5, 6, 7, 8}, [4]uint8{r, g, b, a})
	assert.Len(t, sub.Pix(), 2*2*4)

	assert.Nil(t, buf.SubImage(image.Rect(3, 3, 5, 5)))
	assert.Nil(t, buf.SubImage(image.Rectangle{}))
}
