package prompt

const preamble = `You are an expert test automation engineer. Your task is to generate a Page Object Model (POM) class in %[1]s, plus a companion data class describing the values the page's inputs take.

**Page Name:** %[2]s

**Elements with detailed information:**
%[3]s

**IMPORTANT NAMING GUIDELINES:**
- Review each element's details carefully (tagName, attributes, textContent, input).
- If the provided 'name' field seems generic (e.g., 'button1', 'input2', 'container3'), analyze the element's context:
  - Look at the element's attributes (id, class, data-testid, aria-label, etc.)
  - Consider the element's text content and its input label or placeholder
- Generate meaningful names based on the element's actual purpose. For example:
  - Instead of 'button1', use 'submitButton' if it has type="submit"
  - Instead of 'input2', use 'emailInput' if it has type="email" or placeholder="Email"
  - Instead of 'container3', use 'navigationMenu' if it has class="nav-menu"
- Method names should reflect the element's function in the application.
- Selectors starting with "/" are XPath locators; everything else is a CSS selector.
`

const javaInstructions = `
- The class name should be ` + "`%[1]sPage`" + `.
- Use Selenium WebDriver and the PageFactory pattern.
- For each element, create a private ` + "`WebElement`" + ` field annotated with ` + "`@FindBy(css = ...)`" + ` for CSS selectors or ` + "`@FindBy(xpath = ...)`" + ` for XPath locators.
- For each element, generate a public method to interact with it (e.g., ` + "`clickLoginButton()`" + `, ` + "`enterUsername(String username)`" + `).
- The data class should be a POJO named ` + "`%[1]sData`" + ` with private fields, getters and setters, and a static ` + "`load(String path)`" + ` that reads the defaults file with Jackson.
- Add a ` + "`fillForm(%[1]sData data)`" + ` method on the page that fills every captured input from the data object.
- Ensure all necessary imports (` + "`org.openqa.selenium.*`" + `, ` + "`org.openqa.selenium.support.*`" + `) are included.`

const javaScriptInstructions = `
- The class name should be ` + "`%[1]sPage`" + `.
- Use WebdriverIO syntax.
- Create a getter for each element that returns a selector object (e.g., ` + "`get usernameInput() { return $('selector'); }`" + `).
- Generate async methods for interaction (e.g., ` + "`async login(user, pass)`" + `).
- The data class should be named ` + "`%[1]sData`" + ` with a constructor taking a plain object and a static ` + "`fromFile(path)`" + ` that reads the defaults file.
- Add an ` + "`async fillForm(data)`" + ` method on the page that fills every captured input from a ` + "`%[1]sData`" + ` instance.
- Export both classes with ` + "`module.exports`" + `.`

const typeScriptInstructions = `
- The class name should be ` + "`%[1]sPage`" + `.
- Use Playwright.
- The class should have a private readonly ` + "`page`" + ` property of type ` + "`Page`" + `.
- For each element, create a private readonly locator property (e.g., ` + "`private readonly usernameInput = this.page.locator('selector');`" + `).
- Generate public async methods for interactions (e.g., ` + "`async enterUsername(username: string): Promise<void>`" + `).
- The data model should be an exported interface ` + "`%[1]sData`" + ` plus a ` + "`load%[1]sData(path: string): %[1]sData`" + ` helper that reads the defaults file.
- Add an ` + "`async fillForm(data: %[1]sData): Promise<void>`" + ` method on the page that fills every captured input.
- Include the necessary import for ` + "`Page`" + ` from ` + "`@playwright/test`" + `.`

const dataModelSection = `
**Data model inference:**
- Create one field in the data class for every element that carries an "input" object, named after the element.
- Map captured input types to field types:
  - checkbox, radio -> boolean
  - select-multiple -> array of strings
  - number, range -> a numeric type where the language has one, otherwise string
  - everything else (text, email, password, textarea, select-one, contenteditable, date, ...) -> string
- Use the captured "value" of each input as that field's default value.
- Elements without an "input" object do not get a data field.
`

const styleSection = `
**Code formatting:**
- Use consistent indentation (4 spaces for Java, 2 spaces for JavaScript and TypeScript).
- Put exactly one statement per line.
- Put one blank line between methods and between field groups.
- Never put an entire class on a single line.
`

const additionalSection = `
**Additional Requirements:**
%s
`

const outputSection = `
**Output format:**
Respond with a single JSON object and nothing else, with these fields:
- "pomCode": the complete source of the page object class.
- "dataCode": the complete source of the data class (may be an empty string when no element carries input data).
- "pomFileName": optional, the file name for the page object (e.g., "%[1]sPage.%[2]s").
- "dataFileName": optional, the file name for the data class (e.g., "%[1]sData.%[2]s").
%[3]s
Code inside JSON strings must use real line breaks encoded as \n, never a single line.`

const dataFileRequired = `- "dataFileContent": REQUIRED, a standalone defaults file holding the captured value of every input field. Use pretty-printed JSON unless the additional requirements explicitly ask for another format.`

const dataFileOptional = `- "dataFileContent": optional, omit it when there is no input data.`
