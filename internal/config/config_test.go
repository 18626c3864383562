package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "sensehat_config.txt")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "MQTT_BROKER=tcp://localhost:1883\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval() != 10*time.Millisecond {
		t.Fatalf("poll=%s want=10ms", cfg.PollInterval())
	}
	if cfg.Warmup() != 2*time.Second {
		t.Fatalf("warmup=%s want=2s", cfg.Warmup())
	}
	if cfg.ControllerMode != ModeThreaded {
		t.Fatalf("mode=%q", cfg.ControllerMode)
	}
	if cfg.ColorCentral != (color.RGBA{255, 255, 191, 255}) {
		t.Fatalf("central=%v", cfg.ColorCentral)
	}
	if cfg.SenseHatIMUAddr != 0x6a || cfg.SenseHatLEDAddr != 0x46 {
		t.Fatalf("addrs imu=0x%X led=0x%X", cfg.SenseHatIMUAddr, cfg.SenseHatLEDAddr)
	}
	if cfg.AccelZFromX {
		t.Fatalf("legacy axis copy should default off")
	}
}

func TestLoadOverrides(t *testing.T) {
	body := strings.Join([]string{
		"# Sense HAT controller",
		"",
		"MQTT_BROKER = tcp://pi.local:1883",
		"TOPIC_READING=car/imu",
		"SENSEHAT_I2C_BUS=1",
		"SENSEHAT_IMU_ADDR=0x6b",
		"POLL_INTERVAL_SECONDS=0.02",
		"WARMUP_SECONDS=0",
		"CONTROLLER_MODE=sync",
		"WELCOME_MESSAGE=GO",
		"COLOR_MAX=255,0,0",
		"ACCEL_Z_FROM_X=true",
		"WEB_SERVER_PORT=9090",
		"DISPLAY_I2C_BUS=/dev/i2c-3",
	}, "\n")
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTTBroker != "tcp://pi.local:1883" || cfg.TopicReading != "car/imu" {
		t.Fatalf("mqtt broker=%q topic=%q", cfg.MQTTBroker, cfg.TopicReading)
	}
	if cfg.SenseHatI2CBus != "1" || cfg.SenseHatIMUAddr != 0x6b {
		t.Fatalf("bus=%q imu=0x%X", cfg.SenseHatI2CBus, cfg.SenseHatIMUAddr)
	}
	if cfg.PollInterval() != 20*time.Millisecond || cfg.Warmup() != 0 {
		t.Fatalf("poll=%s warmup=%s", cfg.PollInterval(), cfg.Warmup())
	}
	if cfg.ControllerMode != ModeSync || cfg.WelcomeMessage != "GO" {
		t.Fatalf("mode=%q msg=%q", cfg.ControllerMode, cfg.WelcomeMessage)
	}
	if cfg.ColorMax != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("max=%v", cfg.ColorMax)
	}
	if !cfg.AccelZFromX || cfg.WebServerPort != 9090 || cfg.DisplayI2CBus != "/dev/i2c-3" {
		t.Fatalf("zfromx=%v port=%d display=%q", cfg.AccelZFromX, cfg.WebServerPort, cfg.DisplayI2CBus)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"missing broker":  "TOPIC_READING=x\n",
		"unknown key":     "MQTT_BROKER=tcp://x:1883\nFOO=1\n",
		"no equals":       "MQTT_BROKER=tcp://x:1883\nPOLL_INTERVAL_SECONDS\n",
		"bad float":       "MQTT_BROKER=tcp://x:1883\nPOLL_INTERVAL_SECONDS=fast\n",
		"zero poll":       "MQTT_BROKER=tcp://x:1883\nPOLL_INTERVAL_SECONDS=0\n",
		"negative warmup": "MQTT_BROKER=tcp://x:1883\nWARMUP_SECONDS=-1\n",
		"bad mode":        "MQTT_BROKER=tcp://x:1883\nCONTROLLER_MODE=async\n",
		"bad color":       "MQTT_BROKER=tcp://x:1883\nCOLOR_MIN=1,2\n",
		"bad addr":        "MQTT_BROKER=tcp://x:1883\nSENSEHAT_LED_ADDR=0x146\n",
		"bad bool":        "MQTT_BROKER=tcp://x:1883\nACCEL_Z_FROM_X=maybe\n",
		"bad port":        "MQTT_BROKER=tcp://x:1883\nWEB_SERVER_PORT=70000\n",
		"empty topic":     "MQTT_BROKER=tcp://x:1883\nTOPIC_READING=\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadReportsLineNumber(t *testing.T) {
	_, err := Load(writeConfig(t, "MQTT_BROKER=tcp://x:1883\n\nBOGUS=1\n"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("err=%v want line 3", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "sensehat_config.txt"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.MQTTBroker = "tcp://localhost:1883"
	if *cfg != *want {
		t.Fatalf("got=%+v\nwant=%+v", *cfg, *want)
	}
}
