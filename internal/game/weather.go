package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/elf-game/internal/models"
)

// WeatherDrawer 天气抽取器接口
// 注入到TurnEngine中，测试时可替换为确定性实现
type WeatherDrawer interface {
	Draw() models.Weather
}

// weatherPool 抽取池：好天气出现概率为2/3，降雪为1/3
var weatherPool = [3]models.Weather{
	models.WeatherGood,
	models.WeatherGood,
	models.WeatherSnow,
}

// randomDrawer 默认天气抽取器
type randomDrawer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewWeatherDrawer 创建默认天气抽取器
func NewWeatherDrawer() WeatherDrawer {
	return &randomDrawer{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSeededWeatherDrawer 创建指定种子的天气抽取器
func NewSeededWeatherDrawer(seed int64) WeatherDrawer {
	return &randomDrawer{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Draw 从抽取池中均匀抽取一个天气
func (d *randomDrawer) Draw() models.Weather {
	d.mu.Lock()
	defer d.mu.Unlock()
	return weatherPool[d.rng.Intn(len(weatherPool))]
}

// SequenceDrawer 按固定序列返回天气的抽取器（测试/调试用）
// 序列耗尽后循环
type SequenceDrawer struct {
	mu       sync.Mutex
	sequence []models.Weather
	index    int
}

// NewSequenceDrawer 创建固定序列天气抽取器
func NewSequenceDrawer(sequence ...models.Weather) *SequenceDrawer {
	if len(sequence) == 0 {
		sequence = []models.Weather{models.WeatherGood}
	}
	return &SequenceDrawer{sequence: sequence}
}

// Draw 返回序列中的下一个天气
func (d *SequenceDrawer) Draw() models.Weather {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.sequence[d.index%len(d.sequence)]
	d.index++
	return w
}
