package conversation

// Commands recognized from the chat.
const (
	cmdStartUpload = "ส่งเอกสาร"
	cmdStartSearch = "ค้นหาเอกสาร"
	cmdCancel      = "ยกเลิก"
	cmdHelp        = "ช่วยเหลือ"
	cmdHelpEN      = "help"
)

// Reply texts. Formatting verbs are filled by the machine.
const (
	replyAskCode = "กรุณากรอกรหัสพนักงาน (A0001 - A2000) ครับ"

	replyBadCode = "❌ รหัสพนักงานไม่ถูกต้อง\nกรุณากรอกใหม่ (A0001 - A2000)"

	replyCodeOK = "✅ ตรวจสอบรหัสพนักงานแล้ว (%s)\nส่งรูปเอกสารมาได้เลยครับ 📄 (ส่งได้สูงสุด %d รูป)"

	replyWaitingImage = "ตอนนี้พร้อมรับรูปเอกสารแล้วครับ 📄\nกรุณาส่งรูปได้เลย"

	replyIdleGuidance = "ถ้าต้องการส่งเอกสาร พิมพ์ \"ส่งเอกสาร\"\nถ้าต้องการค้นหาเอกสาร พิมพ์ \"ค้นหาเอกสาร\" ครับ"

	replyImageOutsideFlow = "ก่อนส่งรูป กรุณาพิมพ์ \"ส่งเอกสาร\" และกรอกรหัสพนักงานก่อนครับ"

	replyUnreadable = "อ่านตัวอักษรไม่ออกครับ 😅\nกรุณาถ่ายใหม่ให้ชัดขึ้นแล้วส่งอีกครั้ง"

	replyShapeReject = "รูปนี้ไม่ใช่เอกสารหรือใบเสร็จที่รองรับครับ\nกรุณาถ่ายใหม่ให้เห็นหัวเอกสารชัด ๆ แล้วส่งอีกครั้ง"

	replyMissingIdentifier = "อ่านเลขที่ใบเสร็จ (BN) ไม่พบครับ\nกรุณาถ่ายใหม่ให้เห็นเลข BN ชัด ๆ แล้วส่งอีกครั้ง"

	replyNextImage = "✅ รับรูปที่ %d แล้วครับ\nส่งรูปถัดไปได้เลย (เหลืออีก %d รูป)"

	replySavedHeader = "✅ บันทึกเรียบร้อย %d รายการ\n👤 รหัสพนักงาน: %s"

	replyPartialFailure = "⚠️ บันทึกได้ %d รายการ แต่อีก %d รายการบันทึกไม่สำเร็จ\nกรุณาส่งรายการที่เหลือใหม่อีกครั้งครับ"

	replyTimeout = "⏰ หมดเวลาการทำรายการครับ\nกรุณาเริ่มใหม่อีกครั้ง"

	replyCancelIdle = "ยังไม่มีรายการค้างอยู่ครับ"

	replyCancelDone = "✅ ยกเลิกรายการแล้วครับ"

	replyHelp = "วิธีใช้งาน:\n" +
		"• พิมพ์ \"ส่งเอกสาร\" เพื่อส่งรูปเอกสารหรือใบเสร็จ\n" +
		"• พิมพ์ \"ค้นหาเอกสาร\" เพื่อค้นหารายการที่เคยส่ง\n" +
		"• พิมพ์ \"ยกเลิก\" เพื่อยกเลิกรายการที่ค้างอยู่"

	replySearchMenu = "เลือกประเภทการค้นหาครับ:\n" +
		"1. เลขที่ใบเสร็จ (BN)\n" +
		"2. เลขประจำตัวผู้ป่วย (HN)\n" +
		"3. ชื่อ\n" +
		"4. นับจำนวนตามวันที่"

	replyAskIdentifier  = "กรุณาพิมพ์เลขที่ใบเสร็จ (BN) ครับ"
	replyAskSecondaryID = "กรุณาพิมพ์เลขประจำตัวผู้ป่วย (HN) ครับ"
	replyAskName        = "กรุณาพิมพ์ชื่อที่ต้องการค้นหาครับ"
	replyAskDate        = "กรุณาพิมพ์วันที่ (วว/ดด/ปปปป) ครับ"

	replyBadDate = "❌ รูปแบบวันที่ไม่ถูกต้อง\nกรุณาพิมพ์ใหม่เป็น วว/ดด/ปปปป"

	replyNoMatch = "ไม่พบรายการที่ค้นหาครับ"

	replyCountByDate = "📊 วันที่ %s พบ %d รายการ"
)
