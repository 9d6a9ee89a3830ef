package entity

// Sequence сквозной счётчик выходных файлов на весь запуск.
// Номера строго возрастают и не переиспользуются, даже если запись не удалась.
// Конкурентных писателей нет, поэтому синхронизации нет.
type Sequence struct {
	last int
}

// NewSequence создаёт счётчик, первый Next вернёт 1
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next увеличивает счётчик и возвращает новое значение
func (s *Sequence) Next() int {
	s.last++
	return s.last
}

// Last возвращает последнее выданное значение (0, если ничего не выдано)
func (s *Sequence) Last() int {
	return s.last
}
