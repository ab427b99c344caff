package i18n

// russian maps English source strings to their Russian rendering.
var russian = map[string]string{
	// layout
	"Local Library": "Местная библиотека",
	"Home":          "Главная",
	"All books":     "Все книги",
	"All authors":   "Все авторы",
	"User:":         "Пользователь:",
	"My Borrowed":   "Мои книги",
	"Login":         "Войти",
	"Logout":        "Выйти",
	"Staff":         "Персонал",
	"previous":      "назад",
	"next":          "вперёд",
	"Page %s of %s": "Страница %s из %s",

	// index
	"Local Library Home": "Главная страница библиотеки",
	"Welcome to LocalLibrary, a website developed by the library staff.": "Добро пожаловать в LocalLibrary, сайт, созданный сотрудниками библиотеки.",
	"Dynamic content": "Динамическое содержимое",
	"The library has the following record counts:": "В библиотеке хранятся следующие записи:",
	"Books:":            "Книги:",
	"Copies:":           "Экземпляры:",
	"Copies available:": "Доступные экземпляры:",
	"Authors:":          "Авторы:",
	"Genres:":           "Жанры:",
	"You have visited this page %d times.": "Вы посетили эту страницу %d раз.",

	// books
	"Book List":                           "Список книг",
	"There are no books in the library.": "В библиотеке нет книг.",
	"Title:":                              "Название:",
	"Author:":                             "Автор:",
	"Unknown":                             "Неизвестен",
	"Summary:":                            "Аннотация:",
	"Language:":                           "Язык:",
	"Genre:":                              "Жанр:",
	"Copies":                              "Экземпляры",
	"Due to be returned:":                 "Вернуть до:",
	"Imprint:":                            "Издание:",
	"Id:":                                 "Идентификатор:",
	"Mark as returned":                    "Отметить как возвращённую",
	"There are no copies of this book in the library.": "В библиотеке нет экземпляров этой книги.",

	// loan statuses
	"Maintenance": "На обслуживании",
	"On loan":     "Выдана",
	"Available":   "Доступна",
	"Reserved":    "Зарезервирована",

	// authors
	"Author List":                     "Список авторов",
	"There are no authors available.": "Авторов нет.",
	"Books":                           "Книги",
	"This author has no books.":       "У этого автора нет книг.",
	"Create author":                   "Добавить автора",
	"Update author":                   "Изменить автора",
	"Delete author":                   "Удалить автора",
	"First name:":                     "Имя:",
	"Last name:":                      "Фамилия:",
	"Date of birth:":                  "Дата рождения:",
	"Died:":                           "Дата смерти:",
	"Submit":                          "Отправить",
	"Back":                            "Назад",
	"Are you sure you want to delete the author?":                              "Вы уверены, что хотите удалить автора?",
	"Yes, delete.": "Да, удалить.",

	// loans
	"Borrowed books":                "Взятые книги",
	"There are no books borrowed.": "Нет взятых книг.",
	"Are you sure you want to mark this copy as returned?": "Отметить этот экземпляр как возвращённый?",
	"Confirm":             "Подтвердить",
	"Renew":               "Продлить",
	"Borrower due date:":  "Срок возврата:",
	"Renewal date:":       "Дата продления:",
	"Enter a date between now and 4 weeks (default 3).": "Введите дату в пределах 4 недель (по умолчанию 3).",

	// accounts
	"Username:":                  "Имя пользователя:",
	"Password:":                  "Пароль:",
	"Logged out":                 "Выход выполнен",
	"Logged out!":                "Вы вышли из системы!",
	"Click here to login again.": "Нажмите здесь, чтобы войти снова.",
	"Please enter a correct username and password. Note that both fields may be case-sensitive.": "Введите правильные имя пользователя и пароль. Оба поля могут быть чувствительны к регистру.",
	"Too many login attempts. Try again later.": "Слишком много попыток входа. Попробуйте позже.",

	// validation
	"This field is required.":                          "Обязательное поле.",
	"Enter a valid date.":                              "Введите правильную дату.",
	"Ensure this value has at most 100 characters.":    "Значение должно содержать не более 100 символов.",
	"Date of death must not be before date of birth.": "Дата смерти не может быть раньше даты рождения.",
	"Invalid date - renewal in past":                   "Неверная дата: продление в прошлом",
	"Invalid date - renewal more than 4 weeks ahead":   "Неверная дата: продление более чем на 4 недели вперёд",

	// errors
	"Bad Request":           "Неверный запрос",
	"Forbidden":             "Доступ запрещён",
	"Not Found":             "Не найдено",
	"Too Many Requests":     "Слишком много запросов",
	"Internal Server Error": "Внутренняя ошибка сервера",
	"The requested page does not exist.":           "Запрошенная страница не существует.",
	"You do not have permission to view this page.": "У вас нет прав для просмотра этой страницы.",
	"Something went wrong. Please try again later.": "Что-то пошло не так. Попробуйте позже.",
	"Too many requests. Try again later.":           "Слишком много запросов. Попробуйте позже.",
	"The form has expired. Reload the page and try again.": "Срок действия формы истёк. Обновите страницу и попробуйте снова.",
}
