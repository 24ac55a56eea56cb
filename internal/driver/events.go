package driver

import "time"

// Stage обозначает крупную фазу прогона.
type Stage string

const (
	StageScan  Stage = "scan"  // обход директорий и листинг файлов
	StageCheck Stage = "check" // проверка заголовков
	StageFix   Stage = "fix"   // применение правок
)

// Status отражает состояние файла внутри фазы.
type Status string

const (
	StatusQueued  Status = "queued"  // ждёт очереди
	StatusWorking Status = "working" // в обработке
	StatusDone    Status = "done"    // обработан
	StatusError   Status = "error"   // обработать не удалось
)

// Event описывает шаг обработки файла. Пустой File относит событие ко
// всему прогону.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Findings int
	Err      error
	Elapsed  time.Duration
}

// ProgressSink получает события по мере выполнения прогона.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink пересылает события в канал, например для TUI-прогресса.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
