package entities

// AccessLevel - уровень доступа пользователя к заметке.
type AccessLevel int

// Уровни доступа. Нулевое значение запрещает доступ.
const (
	AccessNone AccessLevel = iota
	AccessSharedViewer
	AccessOwner
)

func (a AccessLevel) String() string {
	switch a {
	case AccessOwner:
		return "owner"
	case AccessSharedViewer:
		return "shared_viewer"
	default:
		return "none"
	}
}

// CanRead разрешает чтение заметки и ее истории.
func (a AccessLevel) CanRead() bool {
	return a != AccessNone
}

// CanEdit разрешает изменение содержимого. Получатели доступа тоже могут редактировать.
func (a AccessLevel) CanEdit() bool {
	return a != AccessNone
}

// CanShare разрешает выдачу доступа другим пользователям.
func (a AccessLevel) CanShare() bool {
	return a == AccessOwner
}

// Classify определяет уровень доступа пользователя к заметке.
// Владелец проверяется первым, поэтому его присутствие в SharedWith ничего не меняет.
func Classify(userID int64, note *Note) AccessLevel {
	if note == nil || userID <= 0 {
		return AccessNone
	}
	if note.OwnerID == userID {
		return AccessOwner
	}
	if note.IsSharedWith(userID) {
		return AccessSharedViewer
	}
	return AccessNone
}
