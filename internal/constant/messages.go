package constant

// User-visible bot texts. The assistant speaks Russian, matching the
// knowledge-base language and the system prompt.
const (
	MsgWelcome = `🎉 Добро пожаловать в AI-ассистент!

🤖 /ai - задавайте вопросы на основе данных из базы знаний
🎤 Голосовые сообщения - задавайте вопросы голосом
📚 /download <файл> - скачивайте доступные документы
🔧 /admin - управление базой знаний (требуется авторизация)

/help - список всех команд`

	MsgHelp = `📋 Доступные команды:

/start - Главное меню
/ai - Активировать AI-помощник
/stop - Остановить AI-помощник
/reload_data - Перезагрузить данные
/files - Список доступных файлов
/download <файл> - Скачать файл
/chat_id - ID этого чата
/help - Список команд

🎤 Голосовые сообщения - отправьте голосовое сообщение когда AI-режим активен

🔧 Админ команды:
/admin - Админ-панель
/upload - Загрузить файлы
/delete <файл> - Удалить файл
/users - Авторизованные пользователи
/cancel - Отмена операции
/logout - Выход из админ-панели

💡 Просто отправьте сообщение чтобы задать вопрос AI-помощнику`

	MsgLoadingData = "🔄 Загружаю данные из папки data..."

	MsgNoData = "❌ В папке data нет файлов или произошла ошибка загрузки"

	// %d files, %d characters
	MsgAiActivated = `🤖 AI-режим активирован

📊 База знаний: %d файлов из папки data
💾 Загружено %d символов данных
📝 Отвечаю только на основе предоставленных данных
🔍 В ответах указываю источники информации [Источник: файл.расширение]
🎤 Поддерживаются голосовые сообщения
🛡️ Вопросы проверяются на релевантность данным
⏹️ Используйте /stop чтобы выключить

Задавайте ваш вопрос текстом или голосом:`

	MsgAiStopped = "🛑 AI-режим отключен. Контекст очищен."

	MsgAiNotActive = "❌ AI-режим не активирован. Отправьте /ai чтобы начать."

	// %d files, %d characters
	MsgDataReloaded = "✅ Данные перезагружены! Загружено %d файлов, %d символов"

	MsgNotRelevant = `⚠️ Вопрос не относится к предоставленным данным

Я могу отвечать только на вопросы, связанные с информацией из загруженных файлов в папке data.

Пожалуйста, задайте вопрос о содержании документов, например:
• Что написано в файле X?
• Какая информация есть о Y?
• Расскажи о Z из документов`

	MsgGenerationFailed = "⚠️ Ошибка генерации. Попробуйте позже."

	MsgSpeechNotRecognized = "❌ Не удалось распознать речь. Попробуйте еще раз или напишите текст."

	// %s recognized text
	MsgSpeechRecognized = "🎤 Распознано: %s"

	MsgEnterPassword = `🔐 Авторизация

Для доступа к админ-панели введите пароль:

Для отмены отправьте /cancel`

	MsgAuthSuccess = "✅ Авторизация успешна! Доступ к админ-панели разрешен."

	MsgWrongPassword = "❌ Неверный пароль. Попробуйте снова или отправьте /cancel для отмены."

	// %d minutes
	MsgLoginLocked = "⛔ Слишком много неверных попыток. Повторите через %d мин."

	MsgAuthCancelled = "❌ Авторизация отменена"

	MsgAccessDenied = "❌ Доступ запрещен"

	MsgAdminPanel = `🔧 Админ панель

/files - Все файлы
/upload - Загрузить файлы
/delete <файл> - Удалить файл
/users - Пользователи
/logout - Выход`

	// %s allowed extensions
	MsgUploadPrompt = `📤 Загрузка файлов

Отправьте файлы в формате %s.
Файлы будут автоматически сохранены в папку data.

Для отмены отправьте /cancel`

	MsgUploadCancelled = "❌ Загрузка файлов отменена"

	// %s extension, %s allowed list
	MsgUnsupportedFormat = "❌ Неподдерживаемый формат файла: %s\nРазрешенные форматы: %s"

	// %s filename
	MsgFileSaved = "✅ Файл %s успешно загружен в папку data"

	// %s filename
	MsgFileDeleted = "✅ Файл %s удален"

	MsgFileNotFound = "❌ Файл не найден"

	MsgEmptyFolder = "📁 Папка data пуста"

	MsgLoggedOut = "✅ Вы вышли из админ-панели"

	MsgNotAuthorized = "❌ Вы не авторизованы"

	// %s chat id
	MsgChatID = "ID этого чата: %s"
)
