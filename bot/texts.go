package bot

// Menu labels shown on the persistent reply keyboard. Free text matching one
// of these is treated as the corresponding button press.
const (
	labelSchedule = "Расписание"
	labelHomework = "Домашнее задание"
	labelFeedback = "Обратная связь"
)

// Inline button captions.
const (
	btnApprove          = "Одобрить"
	btnBack             = "Назад"
	btnReply            = "Ответить"
	btnApproveRequests  = "Одобрить заявки"
	btnAddSchedule      = "Добавить расписание"
	btnAddHomework      = "Добавить ДЗ"
	btnSendAnnouncement = "Отправить объявление"
	btnViewFeedback     = "Просмотреть обратную связь"
	btnHomeworkAll      = "Все ДЗ на неделю"
)

const (
	msgChooseAction    = "Выберите действие:"
	msgPendingWait     = "Ваша заявка на регистрацию ожидает рассмотрения."
	msgRegisterPrompt  = "Привет! Для регистрации, пожалуйста, введите ваше имя и фамилию в формате 'Имя Фамилия':"
	msgRegisterSent    = "Ваша заявка на регистрацию отправлена администратору."
	msgRegisterFormat  = "Неверный формат. Введите ваше имя и фамилию в формате 'Имя Фамилия'"
	msgAdminPanel      = "Админ панель:"
	msgNoAdminRights   = "У вас нет прав администратора."
	msgNoPending       = "Нет новых заявок на регистрацию."
	msgChoosePending   = "Выберите пользователя для одобрения."
	msgPendingNotFound = "Пользователь не найден в списке ожидания."
	msgApprovedByAdmin = "Ваша заявка на регистрацию одобрена! Теперь вам доступны все функции бота."

	msgSchedulePrompt  = "Введите день недели и расписание в формате 'понедельник:урок1,урок2,...' :"
	msgScheduleUpdated = "Расписание обновлено"
	msgNoSchedule      = "Расписание пока не задано."
	msgScheduleHeader  = "Расписание на неделю:"

	msgHomeworkPrompt = "Введите ДЗ в формате 'день_недели:урок:дз'. Например, 'понедельник:математика:стр. 12 упр. 5'"
	msgHomeworkAdded  = "Домашнее задание добавлено"
	msgNoHomework     = "Домашнее задание пока не задано."
	msgChooseDay      = "Выберите день:"
	msgNoHomeworkDay  = "Нет ДЗ на этот день"
	msgNoSuchHomework = "Нет такого дз"

	msgBadFormat = "Неверный формат"

	msgAnnouncementPrompt = "Введите объявление для всех пользователей:"
	msgAnnouncementSent   = "Объявление отправлено"
	msgAnnouncementPrefix = "Новое объявление от администратора:\n"

	msgFeedbackPrompt   = "Напишите ваше сообщение для администратора:"
	msgFeedbackSent     = "Сообщение отправлено администратору"
	msgNoFeedback       = "Нет обратной связи"
	msgChooseFeedback   = "Выберите сообщение для ответа"
	msgReplyPrompt      = "Введите ответ:"
	msgReplySent        = "Ответ отправлен"
	msgReplyPrefix      = "Ответ от администратора:\n"
	msgFeedbackNotFound = "Сообщение не найдено"

	msgInternalError = "Произошла ошибка. Попробуйте позже"
)
