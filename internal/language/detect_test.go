package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEnglish(t *testing.T) {
	d := NewDetector()
	got := d.Detect("Hello there, could you please recommend some running shoes for the winter season?")
	assert.Equal(t, "en", got)
}

func TestDetectEmptyFallsBack(t *testing.T) {
	d := NewDetector()
	assert.Equal(t, "en", d.Detect(""))
	assert.Equal(t, "en", d.Detect("   "))
}

func TestDetectSpanish(t *testing.T) {
	d := NewDetector()
	got := d.Detect("Hola, me gustaría comprar unos zapatos nuevos para el invierno, muchas gracias por la ayuda")
	assert.Equal(t, "es", got)
}
