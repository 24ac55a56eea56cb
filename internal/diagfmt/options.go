package diagfmt

// PathMode задаёт форму пути к файлу в выводе диагностик.
type PathMode uint8

const (
	PathModeAuto     PathMode = iota // длинные абсолютные пути сводятся к имени файла
	PathModeAbsolute                 // всегда абсолютный путь
	PathModeRelative                 // относительно базовой директории
	PathModeBasename                 // только имя файла
)

// PrettyOpts controls the human-readable renderer.
type PrettyOpts struct {
	PathMode PathMode
	Context  int8  // строк контекста вокруг спана
	Width    uint8 // 0 означает без ограничения ширины

	Color       bool
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts controls the machine-readable renderer.
type JSONOpts struct {
	PathMode PathMode
	Max      int // сколько диагностик попадёт в вывод; сам Bag не трогаем

	IncludePositions bool
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

// SarifRunMeta describes the tool for the SARIF run object.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string // попадает в invocation.arguments
}
