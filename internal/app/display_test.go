package app

import (
	"image"
	"strings"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/sensehat_controller/internal/imu"
)

func litPixels(img *image1bit.VerticalLSB, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.BitAt(x, y) == image1bit.On {
				n++
			}
		}
	}
	return n
}

func TestReadingImageWaiting(t *testing.T) {
	img := readingImage(imu.Reading{}, false)
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
		t.Fatalf("bounds=%v want 128x64", b)
	}
	if litPixels(img, image.Rect(0, 0, 128, 40)) == 0 {
		t.Fatalf("waiting screen is blank")
	}
	if n := litPixels(img, image.Rect(0, 42, 128, 64)); n != 0 {
		t.Fatalf("waiting screen drew %d pixels below line 2", n)
	}
}

func TestReadingImageUsesAllLines(t *testing.T) {
	img := readingImage(sampleReading(), true)
	for i, band := range []image.Rectangle{
		image.Rect(0, 0, 128, 14),
		image.Rect(0, 14, 128, 27),
		image.Rect(0, 27, 128, 40),
		image.Rect(0, 40, 128, 53),
	} {
		if litPixels(img, band) == 0 {
			t.Fatalf("line %d is blank", i+1)
		}
	}
}

func TestReadingImageDependsOnReading(t *testing.T) {
	a := readingImage(sampleReading(), true)
	r := sampleReading()
	r.Acceleration = imu.Vec3{1.5, -1.5, 0.5}
	b := readingImage(r, true)
	if string(a.Pix) == string(b.Pix) {
		t.Fatalf("different readings rendered identically")
	}
}

func TestSplashImageNotBlank(t *testing.T) {
	if litPixels(splashImage(), image.Rect(0, 0, 128, 64)) == 0 {
		t.Fatalf("splash is blank")
	}
}

func TestDisplayData(t *testing.T) {
	var d DisplayData
	if _, have := d.get(); have {
		t.Fatalf("empty DisplayData reports data")
	}
	d.set(sampleReading())
	r, have := d.get()
	if !have || r != sampleReading() {
		t.Fatalf("got=%+v have=%v", r, have)
	}
}

func TestFormatReading(t *testing.T) {
	s := formatReading(imu.Reading{Acceleration: imu.Vec3{0, 0, 2}})
	for _, want := range []string{"[IMU]", "az=  2.000", "|a|= 2.000", "dgz=  0.000"} {
		if !strings.Contains(s, want) {
			t.Fatalf("%q does not contain %q", s, want)
		}
	}
}
