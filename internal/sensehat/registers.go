// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensehat

// LSM9DS1 accelerometer/gyroscope (magnetometer lives at a separate address
// and is not used).
const (
	DefaultIMUAddr = 0x6a

	regWhoAmI     = 0x0F
	regCtrlReg1G  = 0x10
	regOutXLG     = 0x18
	regCtrlReg6XL = 0x20
	regCtrlReg8   = 0x22
	regOutXLXL    = 0x28

	whoAmIValue = 0x68

	// 119 Hz ODR, ±245 dps.
	ctrlReg1GInit = 0b011_00_000
	// 119 Hz ODR, ±2 g.
	ctrlReg6XLInit = 0b011_00_000
	// IF_ADD_INC: auto-increment register address on multi-byte reads.
	ctrlReg8Init = 0b0000_0100

	accelScale = 0.061e-3 // g per LSB at ±2 g
	gyroScale  = 8.75e-3  // dps per LSB at ±245 dps
)

// LED matrix microcontroller (ATTINY88 on the HAT).
const (
	DefaultLEDAddr = 0x46

	regLEDData = 0x00
	regLEDWAI  = 0xF0

	ledWAIValue = 's'
)

// RegisterInfo describes one LSM9DS1 register for the register dump tool.
type RegisterInfo struct {
	Address     byte
	Name        string
	Description string
	Access      string // "R", "W", "RW"
	Default     byte
}

// IMURegisterMap returns metadata for the LSM9DS1 accel/gyro registers this
// driver touches, plus the status and output registers worth inspecting.
func IMURegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: regWhoAmI, Name: "WHO_AM_I", Description: "Device identification (0x68)", Access: "R", Default: whoAmIValue},
		{Address: regCtrlReg1G, Name: "CTRL_REG1_G", Description: "Gyro ODR [7:5], full scale [4:3], bandwidth [1:0]", Access: "RW", Default: 0x00},
		{Address: 0x11, Name: "CTRL_REG2_G", Description: "Gyro INT/OUT selection", Access: "RW", Default: 0x00},
		{Address: 0x12, Name: "CTRL_REG3_G", Description: "Gyro low-power and HPF", Access: "RW", Default: 0x00},
		{Address: 0x17, Name: "STATUS_REG", Description: "Data ready flags (bit0 XLDA, bit1 GDA)", Access: "R", Default: 0x00},
		{Address: regOutXLG, Name: "OUT_X_L_G", Description: "Gyro X low byte", Access: "R"},
		{Address: regOutXLG + 1, Name: "OUT_X_H_G", Description: "Gyro X high byte", Access: "R"},
		{Address: regOutXLG + 2, Name: "OUT_Y_L_G", Description: "Gyro Y low byte", Access: "R"},
		{Address: regOutXLG + 3, Name: "OUT_Y_H_G", Description: "Gyro Y high byte", Access: "R"},
		{Address: regOutXLG + 4, Name: "OUT_Z_L_G", Description: "Gyro Z low byte", Access: "R"},
		{Address: regOutXLG + 5, Name: "OUT_Z_H_G", Description: "Gyro Z high byte", Access: "R"},
		{Address: 0x1F, Name: "CTRL_REG5_XL", Description: "Accel decimation and axis enable", Access: "RW", Default: 0x38},
		{Address: regCtrlReg6XL, Name: "CTRL_REG6_XL", Description: "Accel ODR [7:5], full scale [4:3]", Access: "RW", Default: 0x00},
		{Address: 0x21, Name: "CTRL_REG7_XL", Description: "Accel high-resolution and filters", Access: "RW", Default: 0x00},
		{Address: regCtrlReg8, Name: "CTRL_REG8", Description: "BOOT, BDU, IF_ADD_INC (bit2), SW_RESET", Access: "RW", Default: 0x04},
		{Address: regOutXLXL, Name: "OUT_X_L_XL", Description: "Accel X low byte", Access: "R"},
		{Address: regOutXLXL + 1, Name: "OUT_X_H_XL", Description: "Accel X high byte", Access: "R"},
		{Address: regOutXLXL + 2, Name: "OUT_Y_L_XL", Description: "Accel Y low byte", Access: "R"},
		{Address: regOutXLXL + 3, Name: "OUT_Y_H_XL", Description: "Accel Y high byte", Access: "R"},
		{Address: regOutXLXL + 4, Name: "OUT_Z_L_XL", Description: "Accel Z low byte", Access: "R"},
		{Address: regOutXLXL + 5, Name: "OUT_Z_H_XL", Description: "Accel Z high byte", Access: "R"},
	}
}
