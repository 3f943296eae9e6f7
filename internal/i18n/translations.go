package i18n

// translations maps language codes to translation keys and their values.
//
//nolint:gochecknoglobals // read-only lookup table.
var translations = map[Language]map[string]string{
	English: {
		"app.title":             "Home Gym",
		"app.tagline":           "Dumbbells, no bench, steady progress.",
		"nav.dashboard":         "Today",
		"nav.drafts":            "Planner",
		"nav.coach":             "Coach",
		"nav.history":           "History",
		"nav.stats":             "Stats",
		"nav.nutrition":         "Nutrition",
		"nav.sun":               "Sun",
		"nav.profile":           "Profile",
		"language.picker.label": "Language",
		"language.name.en":      "English",
		"language.name.zh-TW":   "繁體中文",
		"language.submit":       "Change",
		"live.updated":          "Updated",

		"weekday.Monday":    "Monday",
		"weekday.Tuesday":   "Tuesday",
		"weekday.Wednesday": "Wednesday",
		"weekday.Thursday":  "Thursday",
		"weekday.Friday":    "Friday",
		"weekday.Saturday":  "Saturday",
		"weekday.Sunday":    "Sunday",

		"dashboard.heading":        "Today is %s",
		"dashboard.plan":           "Today's plan",
		"dashboard.open_planner":   "Open planner",
		"dashboard.workouts_week":  "Workouts in the last 7 days",
		"dashboard.protein_today":  "Protein today",
		"dashboard.calories_today": "Calories today",
		"dashboard.sun_today":      "Sun today",
		"dashboard.sun_yes":        "Logged",
		"dashboard.sun_no":         "Not yet",
		"dashboard.greeting":       "Hi %s",

		"drafts.title_label":     "Title",
		"drafts.week_label":      "Week",
		"drafts.prev_week":       "Previous week",
		"drafts.next_week":       "Next week",
		"drafts.exercise_label":  "Exercise",
		"drafts.reps":            "Reps",
		"drafts.weight":          "Weight (kg)",
		"drafts.add_exercise":    "Add exercise",
		"drafts.remove_exercise": "Remove exercise",
		"drafts.add_set":         "Add set",
		"drafts.remove_set":      "Remove set",
		"drafts.save":            "Save",
		"drafts.clear":           "Clear",
		"drafts.commit":          "Finish workout",
		"drafts.guide":           "How to",
		"drafts.set":             "Set %d",

		"coach.heading":           "Coach",
		"coach.request_label":     "What do you want to train?",
		"coach.difficulty_label":  "Level",
		"coach.body_weight_label": "Body weight (kg)",
		"coach.generate":          "Generate plan",
		"coach.routines":          "Routines",
		"coach.use_routine":       "Use",
		"coach.pending":           "Suggested plan",
		"coach.apply_day":         "Apply to",
		"coach.apply":             "Apply",
		"coach.discard":           "Discard",
		"coach.guide_heading":     "How to do %s",
		"coach.disabled":          "The coach is not configured on this server.",
		"difficulty.beginner":     "Beginner",
		"difficulty.intermediate": "Intermediate",
		"difficulty.advanced":     "Advanced",

		"history.heading": "History",
		"history.empty":   "No workouts yet. Finish one in the planner.",
		"history.repeat":  "Repeat",
		"history.delete":  "Delete",
		"history.volume":  "Volume",

		"stats.heading":       "Stats",
		"stats.total":         "Total workouts",
		"stats.lifetime":      "Lifetime volume (kg)",
		"stats.volume_chart":  "Recent volume",
		"stats.records":       "Personal records",
		"stats.no_record":     "no record",
		"stats.empty":         "Log a workout to see your stats.",
		"facet.chest_press":   "Chest press",
		"facet.squat":         "Squat",
		"facet.deadlift":      "Deadlift",

		"nutrition.heading":        "Nutrition",
		"nutrition.date_label":     "Date",
		"nutrition.show":           "Show",
		"nutrition.food_label":     "Food",
		"nutrition.protein_label":  "Protein (g)",
		"nutrition.calories_label": "Calories (kcal)",
		"nutrition.add":            "Add",
		"nutrition.delete":         "Delete",
		"nutrition.totals":         "Totals",
		"nutrition.target":         "Target",
		"nutrition.no_target":      "Fill in your profile to get a target.",
		"nutrition.estimate":       "Estimate with the coach",
		"nutrition.grams_label":    "Weight (g)",
		"nutrition.estimate_go":    "Estimate",
		"nutrition.empty":          "Nothing logged on this day.",

		"sun.heading":    "Sun",
		"sun.log_now":    "I got sun now",
		"sun.date_label": "Date",
		"sun.log_date":   "Log for date",
		"sun.delete":     "Delete",
		"sun.empty":      "No sun logged yet.",

		"profile.heading":        "Profile",
		"profile.nickname":       "Nickname",
		"profile.motto":          "Motto",
		"profile.age":            "Age",
		"profile.height":         "Height (cm)",
		"profile.weight":         "Weight (kg)",
		"profile.gender":         "Gender",
		"gender.male":            "Male",
		"gender.female":          "Female",
		"profile.activity":       "Activity factor",
		"profile.protein_factor": "Protein per kg",
		"profile.save":           "Save",
		"profile.tdee":           "Daily energy need (kcal)",
		"profile.protein_target": "Daily protein target (g)",
		"profile.bmi":            "BMI",
		"profile.incomplete":     "Fill in age, height and weight to get targets.",
		"profile.export":         "Download my data",
		"profile.forget":         "Delete me and all my data",

		"notice.saved":            "Saved.",
		"notice.deleted":          "Deleted.",
		"notice.committed":        "Workout saved to history.",
		"notice.applied":          "Plan applied to the planner.",
		"notice.discarded":        "Plan discarded.",
		"notice.empty_plan":       "Add at least one exercise before finishing.",
		"notice.invalid":          "Check the form and try again.",
		"notice.not_found":        "It no longer exists.",
		"notice.persistence":      "Saving failed. Try again.",
		"notice.generation":       "The coach could not answer. Try again.",
		"notice.malformed":        "The coach answered in an unexpected format. Try again.",
		"notice.stale":            "A newer request replaced this one.",
		"notice.disabled":         "The coach is not configured on this server.",
		"notice.estimated":        "Estimate added.",
		"error.title":             "Something went wrong",
		"error.body":              "We have been notified. Please try again in a moment.",
		"notfound.title":          "Page not found",
		"notfound.body":           "The page you are looking for does not exist.",
		"notfound.home":           "Back to today",
	},
	TraditionalChinese: {
		"app.title":             "居家健身",
		"app.tagline":           "啞鈴、不用椅子、穩定進步。",
		"nav.dashboard":         "今天",
		"nav.drafts":            "課表",
		"nav.coach":             "教練",
		"nav.history":           "紀錄",
		"nav.stats":             "統計",
		"nav.nutrition":         "營養",
		"nav.sun":               "日曬",
		"nav.profile":           "個人資料",
		"language.picker.label": "語言",
		"language.name.en":      "English",
		"language.name.zh-TW":   "繁體中文",
		"language.submit":       "切換",
		"live.updated":          "已更新",

		"weekday.Monday":    "週一",
		"weekday.Tuesday":   "週二",
		"weekday.Wednesday": "週三",
		"weekday.Thursday":  "週四",
		"weekday.Friday":    "週五",
		"weekday.Saturday":  "週六",
		"weekday.Sunday":    "週日",

		"dashboard.heading":        "今天是%s",
		"dashboard.plan":           "今日課表",
		"dashboard.open_planner":   "打開課表",
		"dashboard.workouts_week":  "最近 7 天訓練次數",
		"dashboard.protein_today":  "今日蛋白質",
		"dashboard.calories_today": "今日熱量",
		"dashboard.sun_today":      "今日日曬",
		"dashboard.sun_yes":        "已記錄",
		"dashboard.sun_no":         "尚未",
		"dashboard.greeting":       "嗨 %s",

		"drafts.title_label":     "標題",
		"drafts.week_label":      "週次",
		"drafts.prev_week":       "上一週",
		"drafts.next_week":       "下一週",
		"drafts.exercise_label":  "動作",
		"drafts.reps":            "次數",
		"drafts.weight":          "重量 (kg)",
		"drafts.add_exercise":    "新增動作",
		"drafts.remove_exercise": "移除動作",
		"drafts.add_set":         "新增一組",
		"drafts.remove_set":      "移除這組",
		"drafts.save":            "儲存",
		"drafts.clear":           "清空",
		"drafts.commit":          "完成訓練",
		"drafts.guide":           "動作教學",
		"drafts.set":             "第 %d 組",

		"coach.heading":           "教練",
		"coach.request_label":     "今天想練什麼？",
		"coach.difficulty_label":  "程度",
		"coach.body_weight_label": "體重 (kg)",
		"coach.generate":          "產生課表",
		"coach.routines":          "推薦課表",
		"coach.use_routine":       "使用",
		"coach.pending":           "建議課表",
		"coach.apply_day":         "套用到",
		"coach.apply":             "套用",
		"coach.discard":           "捨棄",
		"coach.guide_heading":     "%s 怎麼做",
		"coach.disabled":          "此伺服器尚未設定教練功能。",
		"difficulty.beginner":     "初學者",
		"difficulty.intermediate": "中階",
		"difficulty.advanced":     "進階",

		"history.heading": "訓練紀錄",
		"history.empty":   "還沒有紀錄，先到課表完成一次訓練吧。",
		"history.repeat":  "再練一次",
		"history.delete":  "刪除",
		"history.volume":  "訓練量",

		"stats.heading":      "統計",
		"stats.total":        "總訓練次數",
		"stats.lifetime":     "累積訓練量 (kg)",
		"stats.volume_chart": "近期訓練量",
		"stats.records":      "個人紀錄",
		"stats.no_record":    "尚無紀錄",
		"stats.empty":        "完成一次訓練就能看到統計。",
		"facet.chest_press":  "臥推",
		"facet.squat":        "深蹲",
		"facet.deadlift":     "硬舉",

		"nutrition.heading":        "營養",
		"nutrition.date_label":     "日期",
		"nutrition.show":           "查看",
		"nutrition.food_label":     "食物",
		"nutrition.protein_label":  "蛋白質 (g)",
		"nutrition.calories_label": "熱量 (kcal)",
		"nutrition.add":            "新增",
		"nutrition.delete":         "刪除",
		"nutrition.totals":         "總計",
		"nutrition.target":         "目標",
		"nutrition.no_target":      "填寫個人資料即可取得目標。",
		"nutrition.estimate":       "請教練估算",
		"nutrition.grams_label":    "重量 (g)",
		"nutrition.estimate_go":    "估算",
		"nutrition.empty":          "這天還沒有紀錄。",

		"sun.heading":    "日曬",
		"sun.log_now":    "我剛曬過太陽",
		"sun.date_label": "日期",
		"sun.log_date":   "補記這天",
		"sun.delete":     "刪除",
		"sun.empty":      "還沒有日曬紀錄。",

		"profile.heading":        "個人資料",
		"profile.nickname":       "暱稱",
		"profile.motto":          "座右銘",
		"profile.age":            "年齡",
		"profile.height":         "身高 (cm)",
		"profile.weight":         "體重 (kg)",
		"profile.gender":         "性別",
		"gender.male":            "男",
		"gender.female":          "女",
		"profile.activity":       "活動係數",
		"profile.protein_factor": "每公斤蛋白質",
		"profile.save":           "儲存",
		"profile.tdee":           "每日熱量需求 (kcal)",
		"profile.protein_target": "每日蛋白質目標 (g)",
		"profile.bmi":            "BMI",
		"profile.incomplete":     "填寫年齡、身高與體重即可計算目標。",
		"profile.forget":         "刪除我和我的所有資料",
		"profile.export":         "下載我的資料",

		"notice.saved":       "已儲存。",
		"notice.deleted":     "已刪除。",
		"notice.committed":   "訓練已存入紀錄。",
		"notice.applied":     "課表已套用。",
		"notice.discarded":   "已捨棄課表。",
		"notice.empty_plan":  "完成前請至少新增一個動作。",
		"notice.invalid":     "請檢查欄位後再試一次。",
		"notice.not_found":   "資料已不存在。",
		"notice.persistence": "儲存失敗，請再試一次。",
		"notice.generation":  "教練暫時無法回覆，請再試一次。",
		"notice.malformed":   "教練的回覆格式不正確，請再試一次。",
		"notice.stale":       "已有較新的請求取代這次請求。",
		"notice.disabled":    "此伺服器尚未設定教練功能。",
		"notice.estimated":   "已加入估算結果。",
		"error.title":        "發生錯誤",
		"error.body":         "我們已收到通知，請稍後再試。",
		"notfound.title":     "找不到頁面",
		"notfound.body":      "你要找的頁面不存在。",
		"notfound.home":      "回到今天",
	},
}
