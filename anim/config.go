package anim

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Control string `yaml:"control"`
			Stream  string `yaml:"stream"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Anim struct {
		Manifest  string  `yaml:"manifest"`
		FrameRate float64 `yaml:"frameRate"`
	} `yaml:"anim"`
	Api struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
}
